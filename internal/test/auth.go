package test

import (
	"context"
	"errors"
	"strconv"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	pkgAuth "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides. The default
// token encodes user id and role so round trips work without a real signer.
type StrategyStub struct {
	IssueFn func(int64, model.Role) (string, error)
	ParseFn func(string) (model.Principal, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(userID int64, role model.Role) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(userID, role)
	}
	return "token:" + strconv.FormatInt(userID, 10) + ":" + string(role), nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (model.Principal, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.Principal{UserID: 1, Role: model.RoleUser}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// AuthenticatorStub implements the middleware authentication contract. The
// default profile is an active account matching the parsed principal.
type AuthenticatorStub struct {
	Principal model.Principal
	Err       error
	ParseFn   func(string) (model.Principal, error)
	ProfileFn func(context.Context, int64) (*model.User, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s AuthenticatorStub) ParseToken(token string) (model.Principal, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return model.Principal{}, s.Err
	}
	return s.Principal, nil
}

// Profile either delegates to override or returns an active account.
func (s AuthenticatorStub) Profile(ctx context.Context, id int64) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, id)
	}
	role := s.Principal.Role
	if role == "" {
		role = model.RoleUser
	}
	return &model.User{ID: id, Role: role, Active: true}, nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
