// Package identity abstracts the external authentication service that holds
// the durable login identities for approved applicants.
package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Namespace for deriving identity UIDs from registration ids.
var uidNamespace = uuid.MustParse("7a5f0e7e-3c64-4efb-9d4a-2f8b6f1c9a01")

// UIDFor derives the identity UID for a registration request. The derivation
// is deterministic so that retried or racing approvals of the same request
// target the same identity instead of minting a second one.
func UIDFor(registrationID string) string {
	return uuid.NewSHA1(uidNamespace, []byte(registrationID)).String()
}

// Identity is the payload for creating an external identity. PasswordHash is
// bcrypt material; the raw password is never retained after intake.
type Identity struct {
	UID           string
	Email         string
	PasswordHash  []byte
	DisplayName   string
	EmailVerified bool
}

// Record describes an existing identity at the provider.
type Record struct {
	UID       string
	Email     string
	CreatedAt time.Time
}

type Provider interface {
	// CreateIdentity creates the identity under its pre-assigned UID and
	// returns that UID.
	CreateIdentity(ctx context.Context, id Identity) (string, error)
	DeleteIdentity(ctx context.Context, uid string) error
	// ListIdentities returns every identity at the provider. Used by the
	// orphan sweep, not by the request path.
	ListIdentities(ctx context.Context) ([]Record, error)
}
