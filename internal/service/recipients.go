package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/medha-kiot/command-center/internal/model"
	"github.com/pkg/errors"
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// NormalizeRequest trims the free-text fields of req in place.
func NormalizeRequest(req *model.EmailDispatchRequest) {
	req.Mode = model.DispatchMode(strings.ToLower(strings.TrimSpace(string(req.Mode))))
	req.To = strings.TrimSpace(req.To)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Body = strings.TrimSpace(req.Body)
	req.SenderUID = strings.TrimSpace(req.SenderUID)
}

// ValidateRequest checks the structural rules of a normalized request.
// Broadcast recipients are checked after resolution.
func ValidateRequest(req *model.EmailDispatchRequest) *Error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewError(ErrorCodeInvalidRequest, errors.Wrap(err, "request validation failed").Error())
	}

	fields := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = true
	}

	switch {
	case fields["Subject"] || fields["Body"]:
		return NewError(ErrorCodeInvalidRequest, "Subject and body are required")
	case fields["Mode"]:
		return NewError(ErrorCodeInvalidRequest, "Invalid mode. Use 'manual' or 'broadcast'")
	case fields["To"]:
		return NewError(ErrorCodeInvalidRequest, "Recipient email required for manual mode")
	default:
		return NewError(ErrorCodeInvalidRequest, verrs[0].Error())
	}
}

// FilterRecipients keeps trimmed entries containing "@", dropping repeated
// addresses (case-insensitive) after their first occurrence.
func FilterRecipients(recipients []string) []string {
	out := make([]string, 0, len(recipients))
	seen := make(map[string]struct{}, len(recipients))
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		if !strings.Contains(r, "@") {
			continue
		}
		key := strings.ToLower(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
