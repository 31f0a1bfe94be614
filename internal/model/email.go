package model

type DispatchMode string

const (
	DispatchModeManual    DispatchMode = "manual"
	DispatchModeBroadcast DispatchMode = "broadcast"
)

type EmailDispatchRequest struct {
	Mode       DispatchMode `json:"mode" validate:"oneof=manual broadcast"`
	To         string       `json:"to,omitempty" validate:"required_if=Mode manual"`
	Recipients []string     `json:"recipients,omitempty"`
	Subject    string       `json:"subject" validate:"required"`
	Body       string       `json:"body" validate:"required"`
	SenderUID  string       `json:"senderUid,omitempty"`
}

type RecipientFailure struct {
	Recipient string `json:"recipient"`
	Error     string `json:"error"`
}

type DispatchResult struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Sent    *int               `json:"sent,omitempty"`
	Total   *int               `json:"total,omitempty"`
	Errors  []RecipientFailure `json:"errors"`
}

// SentCount returns the number of successful sends, treating a manual result as one.
func (r *DispatchResult) SentCount() int {
	if r.Sent != nil {
		return *r.Sent
	}
	if r.Success {
		return 1
	}
	return 0
}
