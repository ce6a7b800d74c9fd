package profiles

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"activity-planner/internal/domain/activities"
	"activity-planner/internal/ports/auth"
)

var errRepoNotFound = fmt.Errorf("repo: %w", activities.ErrNotFound)

type testRepo struct {
	byUID map[string]Profile

	// si está seteado, GetByUID devuelve este error en vez de consultar el mapa
	getErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byUID: map[string]Profile{}}
}

func (r *testRepo) Create(ctx context.Context, p Profile) error {
	if _, ok := r.byUID[p.UID]; ok {
		return errors.New("repo: already exists")
	}
	r.byUID[p.UID] = p
	return nil
}

func (r *testRepo) GetByUID(ctx context.Context, uid string) (Profile, error) {
	if r.getErr != nil {
		return Profile{}, r.getErr
	}
	p, ok := r.byUID[uid]
	if !ok {
		return Profile{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) Update(ctx context.Context, p Profile) error {
	if _, ok := r.byUID[p.UID]; !ok {
		return errRepoNotFound
	}
	r.byUID[p.UID] = p
	return nil
}

type testPromoter struct {
	calls [][2]string
}

func (p *testPromoter) PromotePendingInvites(ctx context.Context, uid, email string) error {
	p.calls = append(p.calls, [2]string{uid, email})
	return nil
}

func verifiedClaims(uid, email string) auth.Claims {
	return auth.Claims{UserID: uid, Email: email, EmailVerified: true}
}

func TestService_Get_MissingProfileFallsBackToClaims(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	p, err := svc.Get(context.Background(), verifiedClaims("u1", "u1@example.com"))
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if p.UID != "u1" || p.Email != "u1@example.com" {
		t.Fatalf("expected profile from claims, got %#v", p)
	}
}

func TestService_Get_RepoFailureSurfaces(t *testing.T) {
	repo := newTestRepo()
	repo.getErr = errors.New("repo: connection refused")
	svc := NewService(repo, nil)

	_, err := svc.Get(context.Background(), verifiedClaims("u1", ""))
	if !errors.Is(err, repo.getErr) {
		t.Fatalf("expected repo failure to surface, got %v", err)
	}
}

func TestService_Set_CreatesThenUpdates(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Set(context.Background(), verifiedClaims("u1", "u1@example.com"), map[string]any{
		"displayName": "Ana",
		"phone":       "+56 9 1234 5678",
		"emergencyContact": map[string]any{
			"name":  "Bob",
			"phone": "+56 9 8765 4321",
		},
	})
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if p.CreatedAt != now || p.DisplayName != "Ana" || p.EmergencyName != "Bob" {
		t.Fatalf("expected created profile, got %#v", p)
	}

	later := now.Add(time.Hour)
	svc.now = func() time.Time { return later }

	p, err = svc.Set(context.Background(), verifiedClaims("u1", "u1@example.com"), map[string]any{
		"subscribeReminders": true,
	})
	if err != nil {
		t.Fatalf("Set (update) returned error: %v", err)
	}
	if !p.SubscribeReminders || p.DisplayName != "Ana" {
		t.Fatalf("expected partial update to keep prior fields, got %#v", p)
	}
	if p.CreatedAt != now || p.UpdatedAt != later {
		t.Fatalf("expected CreatedAt preserved and UpdatedAt bumped, got %#v", p)
	}
}

func TestService_Set_RepoFailureDoesNotCreate(t *testing.T) {
	repo := newTestRepo()
	repo.byUID["u1"] = Profile{UID: "u1", Email: "u1@example.com", DisplayName: "Ana"}
	repo.getErr = errors.New("repo: connection refused")
	svc := NewService(repo, nil)

	_, err := svc.Set(context.Background(), verifiedClaims("u1", "u1@example.com"), map[string]any{
		"displayName": "Overwritten",
	})
	if !errors.Is(err, repo.getErr) {
		t.Fatalf("expected repo failure to surface, got %v", err)
	}
	// un fallo transitorio no puede tomarse como "no existe" y pisar el documento
	if repo.byUID["u1"].DisplayName != "Ana" {
		t.Fatalf("expected stored profile untouched, got %#v", repo.byUID["u1"])
	}
}

func TestService_Set_ValidatesNestedEmergencyContact(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	_, err := svc.Set(context.Background(), verifiedClaims("u1", ""), map[string]any{
		"emergencyContact": map[string]any{"name": 42},
	})
	if err == nil {
		t.Fatalf("expected validation error for non-string nested field")
	}
}

func TestService_Provision_IdempotentAndPromotes(t *testing.T) {
	repo := newTestRepo()
	promoter := &testPromoter{}
	svc := NewService(repo, promoter)

	for i := 0; i < 2; i++ {
		if err := svc.Provision(context.Background(), "u1", "Ana@Example.com", "Ana"); err != nil {
			t.Fatalf("Provision #%d error: %v", i+1, err)
		}
	}

	p := repo.byUID["u1"]
	if p.Email != "ana@example.com" || p.DisplayName != "Ana" {
		t.Fatalf("expected provisioned profile with normalized email, got %#v", p)
	}
	if len(promoter.calls) != 2 || promoter.calls[0] != [2]string{"u1", "ana@example.com"} {
		t.Fatalf("expected promoter invoked per call, got %#v", promoter.calls)
	}
}

func TestService_Provision_RepoFailureSurfaces(t *testing.T) {
	repo := newTestRepo()
	repo.getErr = errors.New("repo: connection refused")
	svc := NewService(repo, &testPromoter{})

	err := svc.Provision(context.Background(), "u1", "ana@example.com", "Ana")
	if !errors.Is(err, repo.getErr) {
		t.Fatalf("expected repo failure to surface, got %v", err)
	}
	if len(repo.byUID) != 0 {
		t.Fatalf("expected no profile created on repo failure, got %#v", repo.byUID)
	}
}
