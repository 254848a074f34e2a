package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/codeWithLeonard225/osmfs/pkg/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a bad username or password. Callers
// must not reveal which of the two was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterUser creates a back-office operator with a hashed password.
func (l *Ledger) RegisterUser(username, password, role, branchID, shortCode string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	switch role {
	case models.RoleStaff, models.RoleAdmin, models.RoleOwner:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
		BranchID:     branchID,
		ShortCode:    shortCode,
		CreatedAt:    time.Now(),
	}
	if err := l.storage.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}
	l.log.Infof("User registered: %s (%s)", user.Username, user.Role)
	return user, nil
}

// Authenticate verifies a username/password pair.
func (l *Ledger) Authenticate(username, password string) (*models.User, error) {
	user, err := l.storage.FindUserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	l.log.Infof("User logged in: %s", user.Username)
	return user, nil
}
