package services

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/falconusers/internal/common"
)

const (
	minUserNameLen = 3
	minPasswordLen = 6

	// Bounds for the username availability check.
	minProbeLen = 2
	maxProbeLen = 15
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("invalid email address")
	}
	return nil
}

func validateUserName(username string) error {
	if utf8.RuneCountInString(username) < minUserNameLen {
		return invalid("username must be at least %d characters", minUserNameLen)
	}
	if strings.ContainsAny(username, " \t\r\n@") {
		return invalid("username must not contain spaces or '@'")
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name is required")
	}
	return nil
}
