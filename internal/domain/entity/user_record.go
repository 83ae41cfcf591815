package entity

import (
	"strings"
	"time"
)

// UserRecord is the normalized registration data held in a browser session.
// It is replaced wholesale on every registration and never patched.
type UserRecord struct {
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	BirthMonth    string    `json:"birthMonth,omitempty"`
	BirthDay      string    `json:"birthDay,omitempty"`
	ChatbotUserID string    `json:"chatbotUserId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FullName joins first and last name with a single space.
func (u *UserRecord) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// HasBirthday reports whether both birthday parts are present.
func (u *UserRecord) HasBirthday() bool {
	return u.BirthMonth != "" && u.BirthDay != ""
}

// BirthMonths is the accepted birth-month spelling, in calendar order.
var BirthMonths = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// NormalizePhone strips surrounding whitespace and enforces a leading "+".
func NormalizePhone(phone string) string {
	p := strings.TrimSpace(phone)
	if p == "" || strings.HasPrefix(p, "+") {
		return p
	}
	return "+" + p
}
