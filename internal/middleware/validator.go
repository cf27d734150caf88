package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mindtype/insights/internal/domain/auth"
	"github.com/mindtype/insights/internal/domain/reports"
)

// Input validation at the HTTP edge. Everything here maps to a 400.

// ErrUserInputInvalid tags request-level validation failures.
var ErrUserInputInvalid = errors.New("invalid user input")

const maxDescriptionLen = 8000

// ValidateLanguage checks the ISO 639-1 code against the supported set.
func ValidateLanguage(code string) error {
	if code == "" {
		return fmt.Errorf("%w: language is required", ErrUserInputInvalid)
	}
	if !reports.SupportedLanguage(code) {
		return fmt.Errorf("%w: unsupported language %q", ErrUserInputInvalid, code)
	}
	return nil
}

// ValidateDescription checks a required free-text self-description.
func ValidateDescription(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: description cannot be blank", ErrUserInputInvalid)
	}
	if len(text) > maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrUserInputInvalid, maxDescriptionLen)
	}
	return nil
}

// ValidateOptionalDescription allows empty but bounds the length.
func ValidateOptionalDescription(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return ValidateDescription(text)
}

// ValidateAnswer checks a submitted Q&A answer. Membership in the offered
// choices is by convention, not enforced.
func ValidateAnswer(answer string) error {
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("%w: answer cannot be blank", ErrUserInputInvalid)
	}
	return nil
}

// ValidateSection checks a report section name.
func ValidateSection(section string) error {
	switch section {
	case "exploration", "strategies":
		return nil
	}
	return fmt.Errorf("%w: unknown section %q (allowed: exploration, strategies)", ErrUserInputInvalid, section)
}

// ValidateLoginMethod checks a login provider variant.
func ValidateLoginMethod(method string) error {
	switch auth.Method(method) {
	case auth.MethodGoogle, auth.MethodEmail, auth.MethodNone:
		return nil
	}
	return fmt.Errorf("%w: unknown login method %q (allowed: google, email, none)", ErrUserInputInvalid, method)
}
