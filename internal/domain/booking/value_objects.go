package booking

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmptyCustomerName   = errors.New("customer name cannot be empty")
	ErrCustomerNameTooLong = errors.New("customer name is too long (max 255 characters)")
	ErrInvalidPhone        = errors.New("phone number must contain 10-15 digits and may include spaces, dashes, parentheses, or a leading +")
	ErrInvalidEmail        = errors.New("invalid email format")
)

const MaxCustomerNameLength = 255

var (
	phoneSeparators = regexp.MustCompile(`[\s\-().]`)
	phoneShape      = regexp.MustCompile(`^\+?\d{10,15}$`)
	emailShape      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

type CustomerName struct {
	value string
}

func NewCustomerName(value string) (CustomerName, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return CustomerName{}, ErrEmptyCustomerName
	}
	if len(trimmed) > MaxCustomerNameLength {
		return CustomerName{}, ErrCustomerNameTooLong
	}
	return CustomerName{value: trimmed}, nil
}

func (n CustomerName) String() string { return n.value }

// Phone keeps the caller's formatting but validates against a normalized
// shape: 10-15 digits with an optional leading +.
type Phone struct {
	value string
}

func NewPhone(value string) (Phone, error) {
	cleaned := phoneSeparators.ReplaceAllString(value, "")
	if !phoneShape.MatchString(cleaned) {
		return Phone{}, ErrInvalidPhone
	}
	return Phone{value: strings.TrimSpace(value)}, nil
}

func (p Phone) String() string { return p.value }

// Normalized strips separators; the duplicate-booking uniqueness key uses it
// so "555-010-1234" and "5550101234" collide.
func (p Phone) Normalized() string {
	return phoneSeparators.ReplaceAllString(p.value, "")
}

type Email struct {
	value string
}

// NewEmail treats blank input as absent; use the ok flag.
func NewEmail(value string) (Email, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Email{}, false, nil
	}
	if !emailShape.MatchString(trimmed) {
		return Email{}, false, ErrInvalidEmail
	}
	return Email{value: trimmed}, true, nil
}

func (e Email) String() string { return e.value }

type SpecialRequests struct {
	value string
}

func NewSpecialRequests(value string) SpecialRequests {
	return SpecialRequests{value: strings.TrimSpace(value)}
}

func (r SpecialRequests) String() string { return r.value }
func (r SpecialRequests) IsEmpty() bool  { return r.value == "" }
