package auth

import (
	"time"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
)

// Strategy issues and verifies auth tokens carrying the caller's identity
// and role.
type Strategy interface {
	IssueToken(userID int64, role model.Role) (string, error)
	ParseToken(token string) (model.Principal, error)
	Name() string
}

// Options tune token issuance.
type Options struct {
	TTL time.Duration
}
