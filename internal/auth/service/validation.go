package service

import "strings"

// Each field gets its own check so the failure names the offending field.
func validateRegistration(input RegisterInput) error {
	if strings.TrimSpace(input.FullName) == "" {
		return ErrFullNameRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return ErrEmailRequired
	}
	if strings.TrimSpace(input.Username) == "" {
		return ErrUsernameRequired
	}
	if strings.TrimSpace(input.Password) == "" {
		return ErrPasswordRequired
	}
	return nil
}

func validateLogin(input LoginInput) error {
	if strings.TrimSpace(input.Username) == "" && strings.TrimSpace(input.Email) == "" {
		return ErrIdentifierRequired
	}
	if strings.TrimSpace(input.Password) == "" {
		return ErrPasswordRequired
	}
	return nil
}
