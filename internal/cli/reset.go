package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/daylog/internal/security"
	"github.com/terraincognita07/daylog/internal/services"
)

const temporaryPasswordLength = 12

type PasswordResetter interface {
	ResetPassword(username string, newPassword string) error
}

// RunResetPasswordCommand sets a new password for username and flags the
// account for a change at next login. A blank newPassword is replaced by a
// generated temporary one, which is printed to out.
func RunResetPasswordCommand(resetter PasswordResetter, username string, newPassword string, out io.Writer) error {
	username = services.NormalizeUsername(username)
	if username == "" {
		return errors.New("username is required")
	}

	generated := newPassword == ""
	if generated {
		temporary, err := security.TemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
		newPassword = temporary
	}

	if err := resetter.ResetPassword(username, newPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return fmt.Errorf("user %s not found", username)
		case errors.Is(err, services.ErrWeakPassword):
			return fmt.Errorf("password must be at least %d characters", services.MinPasswordLength)
		default:
			return fmt.Errorf("update user password: %w", err)
		}
	}

	fmt.Fprintf(out, "Password reset for %s\n", username)
	if generated {
		fmt.Fprintf(out, "Temporary password: %s\n", newPassword)
	}
	fmt.Fprintln(out, "User must change password on next login.")
	return nil
}
