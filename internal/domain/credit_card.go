package domain

import "strings"

// CreditCard is the payment instrument supplied by the caller for a single
// purchase, authorize or verify call. It is never stored by the gateway.
type CreditCard struct {
	Name              string `json:"name"`               // Card holder as printed on the card
	Number            string `json:"number"`             // PAN
	VerificationValue string `json:"verification_value"` // CVV2/CVC2
	Month             int    `json:"month"`              // 1-12
	Year              int    `json:"year"`               // four digits, e.g. 2025
}

// LastFour returns the last four digits of the card number for display and logging
func (c *CreditCard) LastFour() string {
	number := strings.TrimSpace(c.Number)
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

// Credentials authenticate the merchant against the gateway.
// Both fields are embedded in every outbound request.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Validate returns ErrMissingCredentials when either field is empty
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Login) == "" {
		return WrapError(ErrorCodeMissingCredentials, "login is required", nil).WithDetail("field", "login")
	}
	if strings.TrimSpace(c.Password) == "" {
		return WrapError(ErrorCodeMissingCredentials, "password is required", nil).WithDetail("field", "password")
	}
	return nil
}
