package service

type ErrorCode string

const (
	ErrorCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrorCodeCredentialsMissing ErrorCode = "CREDENTIALS_MISSING"
	ErrorCodeAuthFailure        ErrorCode = "AUTH_FAILURE"
	ErrorCodeTransport          ErrorCode = "TRANSPORT_ERROR"
	ErrorCodeStoreUnavailable   ErrorCode = "STORE_UNAVAILABLE"
	ErrorCodeSourceUnreadable   ErrorCode = "SOURCE_UNREADABLE"
	ErrorCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrorCodeUnspecified        ErrorCode = "UNSPECIFIED"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}
