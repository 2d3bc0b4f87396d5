package authz

import (
	"context"
	"errors"
	"testing"

	"darbar/models"
)

// fake store backed by two maps
type fakeStore struct {
	byUID   map[string]*models.AdminGrant
	byEmail map[string]*models.AdminGrant
	err     error
}

func (f *fakeStore) GrantByUID(_ context.Context, uid string) (*models.AdminGrant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUID[uid], nil
}

func (f *fakeStore) GrantByEmail(_ context.Context, email string) (*models.AdminGrant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[email], nil
}

func grant(role string) *models.AdminGrant {
	return &models.AdminGrant{Role: role}
}

func TestResolve(t *testing.T) {
	cfg := Config{
		AdminUIDs:      []string{"listed-admin"},
		SuperAdminUIDs: []string{"listed-super"},
	}

	cases := []struct {
		name      string
		uid       string
		email     string
		store     *fakeStore
		wantAdmin bool
		wantSuper bool
	}{
		{
			name:      "super allowlist wins regardless of documents",
			uid:       "listed-super",
			store:     &fakeStore{byUID: map[string]*models.AdminGrant{"listed-super": grant(models.RoleAdmin)}},
			wantAdmin: true,
			wantSuper: true,
		},
		{
			name:      "admin allowlist grants admin only",
			uid:       "listed-admin",
			store:     &fakeStore{},
			wantAdmin: true,
			wantSuper: false,
		},
		{
			name:      "uid grant with super role",
			uid:       "u1",
			store:     &fakeStore{byUID: map[string]*models.AdminGrant{"u1": grant(models.RoleSuperAdmin)}},
			wantAdmin: true,
			wantSuper: true,
		},
		{
			name:      "uid grant takes priority over email grant",
			uid:       "u1",
			email:     "U1@Example.com",
			store: &fakeStore{
				byUID:   map[string]*models.AdminGrant{"u1": grant(models.RoleAdmin)},
				byEmail: map[string]*models.AdminGrant{"u1@example.com": grant(models.RoleSuperAdmin)},
			},
			wantAdmin: true,
			wantSuper: false,
		},
		{
			name:      "email grant with super role, lowercased lookup",
			uid:       "u2",
			email:     "Boss@Example.com",
			store:     &fakeStore{byEmail: map[string]*models.AdminGrant{"boss@example.com": grant(models.RoleSuperAdmin)}},
			wantAdmin: true,
			wantSuper: true,
		},
		{
			name:      "plain admin grant is admin but not super",
			uid:       "u3",
			store:     &fakeStore{byUID: map[string]*models.AdminGrant{"u3": grant(models.RoleAdmin)}},
			wantAdmin: true,
			wantSuper: false,
		},
		{
			name:      "no grants, no lists",
			uid:       "nobody",
			email:     "nobody@example.com",
			store:     &fakeStore{},
			wantAdmin: false,
			wantSuper: false,
		},
		{
			name:  "empty uid resolves to nothing",
			uid:   "",
			store: &fakeStore{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver(cfg, tc.store)
			got, err := r.Resolve(context.Background(), tc.uid, tc.email)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if got.IsAdmin != tc.wantAdmin || got.IsSuperAdmin != tc.wantSuper {
				t.Fatalf("got %+v, want admin=%v super=%v", got, tc.wantAdmin, tc.wantSuper)
			}
		})
	}
}

func TestResolveDemotionDropsSuper(t *testing.T) {
	store := &fakeStore{byUID: map[string]*models.AdminGrant{"u1": grant(models.RoleSuperAdmin)}}
	r := NewResolver(Config{}, store)

	got, err := r.Resolve(context.Background(), "u1", "")
	if err != nil || !got.IsSuperAdmin {
		t.Fatalf("expected super before demotion, got %+v err=%v", got, err)
	}

	store.byUID["u1"] = grant(models.RoleAdmin)
	got, err = r.Resolve(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.IsSuperAdmin {
		t.Fatal("demoted grant still resolves as super admin")
	}
	if !got.IsAdmin {
		t.Fatal("demoted grant should still resolve as admin")
	}
}

func TestResolveFailsClosed(t *testing.T) {
	store := &fakeStore{err: errors.New("store down")}
	r := NewResolver(Config{SuperAdminUIDs: []string{"other"}}, store)

	got, err := r.Resolve(context.Background(), "u1", "u1@example.com")
	if err == nil {
		t.Fatal("expected lookup error to surface")
	}
	if got.IsAdmin || got.IsSuperAdmin {
		t.Fatalf("lookup error must resolve to no privileges, got %+v", got)
	}
}

func TestResolveSuperAllowlistSurvivesStoreOutage(t *testing.T) {
	store := &fakeStore{err: errors.New("store down")}
	r := NewResolver(Config{SuperAdminUIDs: []string{"boss"}}, store)

	got, err := r.Resolve(context.Background(), "boss", "boss@example.com")
	if err != nil {
		t.Fatalf("listed super admin must not depend on the store: %v", err)
	}
	if !got.IsAdmin || !got.IsSuperAdmin {
		t.Fatalf("listed super admin lost privileges during outage: %+v", got)
	}

	// the admin allow-list carries no such bypass
	r = NewResolver(Config{AdminUIDs: []string{"helper"}}, store)
	if _, err := r.Resolve(context.Background(), "helper", ""); err == nil {
		t.Fatal("admin allow-list should still fail closed on store error")
	}
}

func TestPending(t *testing.T) {
	if !Pending(Status{}, models.RequestPending) {
		t.Fatal("non-admin with pending request should be pending")
	}
	if Pending(Status{IsAdmin: true}, models.RequestPending) {
		t.Fatal("admin must never surface a pending banner")
	}
	if Pending(Status{}, models.RequestApproved) {
		t.Fatal("approved request is not pending")
	}
	if Pending(Status{}, "") {
		t.Fatal("missing request is not pending")
	}
}
