package services

import (
	"errors"

	"github.com/terraincognita07/daylog/internal/models"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrCurrentPasswordInvalid = errors.New("current password invalid")
	ErrNewPasswordMustDiffer  = errors.New("new password must differ")
	ErrAuthLookupFailed       = errors.New("auth lookup failed")
)

type AuthUserRepository interface {
	FindByUsername(username string) (models.User, error)
	ExistsByUsername(username string) (bool, error)
	Create(user *models.User) error
	UpdatePassword(username string, passwordHash string, mustChangePassword bool) error
}

type AuthService struct {
	users      AuthUserRepository
	isNotFound func(error) bool
	logger     *zap.Logger
}

// NewAuthService wires the user store. isNotFound tells a missing user apart
// from a failed lookup.
func NewAuthService(users AuthUserRepository, isNotFound func(error) bool, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}
	return &AuthService{users: users, isNotFound: isNotFound, logger: logger}
}

// Register creates an account. A taken username is reported as false with a
// nil error; invalid input is an error.
func (service *AuthService) Register(usernameRaw string, password string, confirmPassword string) (bool, error) {
	username, password, err := NormalizeCredentialsInput(usernameRaw, password)
	if err != nil {
		return false, err
	}
	if password != confirmPassword {
		return false, ErrPasswordMismatch
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return false, err
	}

	exists, err := service.users.ExistsByUsername(username)
	if err != nil {
		service.logger.Warn("check username", zap.String("username", username), zap.Error(err))
		return false, ErrAuthLookupFailed
	}
	if exists {
		return false, nil
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	user := models.User{Username: username, PasswordHash: passwordHash}
	if err := service.users.Create(&user); err != nil {
		if errors.Is(err, models.ErrDuplicateRecord) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Authenticate checks a login. Legacy digests that match are replaced with a
// bcrypt hash; a failed upgrade does not fail the login.
func (service *AuthService) Authenticate(usernameRaw string, password string) (models.User, error) {
	username, password, err := NormalizeCredentialsInput(usernameRaw, password)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByUsername(username)
	if err != nil {
		if service.isNotFound(err) {
			return models.User{}, ErrUserNotFound
		}
		service.logger.Warn("load user", zap.String("username", username), zap.Error(err))
		return models.User{}, ErrAuthLookupFailed
	}

	ok, needsRehash := VerifyPassword(user.PasswordHash, password)
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}

	if needsRehash {
		upgraded, err := HashPassword(password)
		if err == nil {
			err = service.users.UpdatePassword(user.Username, upgraded, user.MustChangePassword)
		}
		if err != nil {
			service.logger.Warn("upgrade legacy password digest", zap.String("username", user.Username), zap.Error(err))
		} else {
			user.PasswordHash = upgraded
		}
	}
	return user, nil
}

func (service *AuthService) FindByUsername(username string) (models.User, error) {
	user, err := service.users.FindByUsername(NormalizeUsername(username))
	if err != nil {
		if service.isNotFound(err) {
			return models.User{}, ErrUserNotFound
		}
		service.logger.Warn("load user", zap.String("username", username), zap.Error(err))
		return models.User{}, ErrAuthLookupFailed
	}
	return user, nil
}

func (service *AuthService) ChangePassword(username string, currentPassword string, newPassword string, confirmPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrPasswordRequired
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	user, err := service.FindByUsername(username)
	if err != nil {
		return err
	}
	if ok, _ := VerifyPassword(user.PasswordHash, currentPassword); !ok {
		return ErrCurrentPasswordInvalid
	}
	if currentPassword == newPassword {
		return ErrNewPasswordMustDiffer
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return service.users.UpdatePassword(user.Username, passwordHash, false)
}

// ResetPassword stores a new password chosen by an operator and forces a
// change at next login.
func (service *AuthService) ResetPassword(username string, newPassword string) error {
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}
	user, err := service.FindByUsername(username)
	if err != nil {
		return err
	}
	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return service.users.UpdatePassword(user.Username, passwordHash, true)
}
