// Package validator checks email syntax for the personal info form.
package validator

import "regexp"

// emailPattern: a local part of non-space, non-@ characters, then a domain of
// dot-separated non-empty labels with at least one dot. RE2's \s omits \v and Unicode
// spaces, so the classes use [:space:] plus \p{Z}.
var emailPattern = regexp.MustCompile(`(?i)^[^[:space:]\p{Z}@]+@[^[:space:]\p{Z}@.]+(?:\.[^[:space:]\p{Z}@.]+)+$`)

// IsValidEmail reports whether candidate is a syntactically plausible email address.
// The empty string is never valid.
func IsValidEmail(candidate string) bool {
	if candidate == "" {
		return false
	}
	return emailPattern.MatchString(candidate)
}

// EmailValidator tracks the email field as it is edited and keeps the validity of the
// latest text. It is owned by a single form and not safe for concurrent mutation.
type EmailValidator struct {
	currentText string
	valid       bool
}

// NewEmailValidator returns a validator that has observed no text yet and is invalid.
func NewEmailValidator() *EmailValidator {
	return &EmailValidator{}
}

// OnTextChanged records the new field text and recomputes validity.
func (v *EmailValidator) OnTextChanged(candidate string) {
	v.currentText = candidate
	v.valid = IsValidEmail(candidate)
}

// IsValid reports the validity of the most recently observed text.
func (v *EmailValidator) IsValid() bool {
	return v.valid
}

// Text returns the most recently observed text.
func (v *EmailValidator) Text() string {
	return v.currentText
}
