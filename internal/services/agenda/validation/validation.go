// Package validation enforces persona field constraints before any storage
// mutation. Create, edit and the MCP tools share these checks.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Field names reported by validation errors.
const (
	FieldName  = "name"
	FieldEmail = "email"
)

// emailPattern accepts local@domain.tld: at least one non-"@" character, "@",
// a non-"@" domain, "." and a non-empty suffix.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// EmptyFieldError reports a required field that is blank after trimming.
type EmptyFieldError struct {
	Field string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// MalformedEmailError reports an email that does not match local@domain.tld.
type MalformedEmailError struct {
	Value string
}

func (e *MalformedEmailError) Error() string {
	return fmt.Sprintf("email %q is malformed", e.Value)
}

// ValidateName trims raw and rejects an empty result.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &EmptyFieldError{Field: FieldName}
	}
	return name, nil
}

// ValidateEmail trims raw, rejects an empty result and checks the pattern.
func ValidateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", &EmptyFieldError{Field: FieldEmail}
	}
	if !emailPattern.MatchString(email) {
		return "", &MalformedEmailError{Value: email}
	}
	return email, nil
}

// ValidatePersona checks name then email and returns the first failure.
func ValidatePersona(rawName, rawEmail string) (name, email string, err error) {
	name, err = ValidateName(rawName)
	if err != nil {
		return "", "", err
	}
	email, err = ValidateEmail(rawEmail)
	if err != nil {
		return "", "", err
	}
	return name, email, nil
}
