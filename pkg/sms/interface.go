package sms

import (
	"context"
	"strings"
)

type Provider interface {
	Name() string
	SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error)
}

type SMSRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
	Type    string `json:"type"` // transactional, promotional
}

type SMSResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// NormalizeIndianNumber converts a 10-digit or 0-prefixed local number to E.164 (+91...).
// Numbers that already carry a country code are returned without separators.
func NormalizeIndianNumber(number string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	n := replacer.Replace(strings.TrimSpace(number))
	switch {
	case n == "":
		return ""
	case strings.HasPrefix(n, "+"):
		return n
	case len(n) == 12 && strings.HasPrefix(n, "91"):
		return "+" + n
	case len(n) == 11 && strings.HasPrefix(n, "0"):
		return "+91" + n[1:]
	case len(n) == 10:
		return "+91" + n
	}
	return n
}
