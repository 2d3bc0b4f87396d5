// Package authz decides whether a signed-in account holds admin or
// super-admin privileges. Privileges come from three places, checked in a
// fixed order: the static allow-lists handed to the resolver at startup,
// a role document keyed by user id, and a role document keyed by
// lowercased email. The super allow-list is decided before any store
// lookup; for everyone else a lookup failure resolves to "no
// privileges".
package authz

import (
	"context"
	"strings"

	"darbar/models"
	"darbar/utils"
)

// Config carries the static allow-lists, parsed once at process start and
// injected here so the resolver never reads ambient state.
type Config struct {
	AdminUIDs      []string
	SuperAdminUIDs []string
}

// Status is the resolved privilege pair for one account.
type Status struct {
	IsAdmin      bool `json:"isAdmin"`
	IsSuperAdmin bool `json:"isSuperAdmin"`
}

// GrantStore looks up role documents. A missing document is (nil, nil),
// not an error.
type GrantStore interface {
	GrantByUID(ctx context.Context, uid string) (*models.AdminGrant, error)
	GrantByEmail(ctx context.Context, email string) (*models.AdminGrant, error)
}

type Resolver struct {
	cfg   Config
	store GrantStore
}

func NewResolver(cfg Config, store GrantStore) *Resolver {
	return &Resolver{cfg: cfg, store: store}
}

// lookup is a snapshot of everything the strategies may consult.
type lookup struct {
	byUID   *models.AdminGrant
	byEmail *models.AdminGrant
}

// roleStrategies determine the effective role of accounts not on the
// super allow-list. First strategy with an opinion wins, so a uid-keyed
// grant always beats an email-keyed one.
var roleStrategies = []struct {
	name string
	fn   func(l lookup) (role string, found bool)
}{
	{"uid-grant", func(l lookup) (string, bool) {
		if l.byUID != nil {
			return l.byUID.Role, true
		}
		return "", false
	}},
	{"email-grant", func(l lookup) (string, bool) {
		if l.byEmail != nil {
			return l.byEmail.Role, true
		}
		return "", false
	}},
}

// Resolve computes the privilege status for an account. email may be
// empty (anonymous sessions). A uid on the super allow-list resolves to
// super admin without consulting the store, so statically configured
// supers keep their access through a store outage. For everyone else a
// store error returns the zero Status along with the error; callers
// treat that as not-an-admin.
func (r *Resolver) Resolve(ctx context.Context, uid, email string) (Status, error) {
	if uid == "" {
		return Status{}, nil
	}

	if utils.Contains(r.cfg.SuperAdminUIDs, uid) {
		return Status{IsAdmin: true, IsSuperAdmin: true}, nil
	}

	adminListed := utils.Contains(r.cfg.AdminUIDs, uid)

	var l lookup
	var err error
	l.byUID, err = r.store.GrantByUID(ctx, uid)
	if err != nil {
		return Status{}, err
	}
	if email != "" {
		l.byEmail, err = r.store.GrantByEmail(ctx, strings.ToLower(email))
		if err != nil {
			return Status{}, err
		}
	}

	var role string
	for _, s := range roleStrategies {
		if got, ok := s.fn(l); ok {
			role = got
			break
		}
	}

	return Status{
		IsAdmin:      adminListed || l.byUID != nil || l.byEmail != nil,
		IsSuperAdmin: role == models.RoleSuperAdmin,
	}, nil
}

// Pending reports whether a request in reqStatus should surface a pending
// banner. A user who is already an admin never counts as pending,
// whatever their request document says.
func Pending(s Status, reqStatus string) bool {
	return reqStatus == models.RequestPending && !s.IsAdmin
}
