package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
	pkgAuth "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/pkg/auth"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	ScoutGroup string
}

// Register creates a new user account and returns it with an auth token.
// New accounts always start with the regular user role.
func (u *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.ScoutGroup = strings.TrimSpace(in.ScoutGroup)

	if in.Name == "" {
		return nil, "", domainErrors.Validation("name must not be empty")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, "", domainErrors.Validation("invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", domainErrors.Validation("password must have at least %d characters", minPasswordLength)
	}
	if in.ScoutGroup == "" {
		return nil, "", domainErrors.Validation("scout group must not be empty")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		ScoutGroup:   in.ScoutGroup,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID, usr.Role)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	if !usr.Active {
		return nil, "", domainErrors.ErrAccountDisabled
	}

	token, err := u.tokens.IssueToken(usr.ID, usr.Role)
	if err != nil {
		return nil, "", err
	}

	if err := u.users.TouchLastLogin(ctx, usr.ID); err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts the authenticated principal from provided token.
func (u *AuthUseCase) ParseToken(token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}
