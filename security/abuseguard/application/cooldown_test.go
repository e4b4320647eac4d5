package application

import (
	"testing"
	"time"

	"bot-sentinela/security/abuseguard/domain"
)

type fakeWindowStore struct {
	decision domain.Decision

	checked []domain.Key
	reset   []domain.Key
}

func (f *fakeWindowStore) Check(key domain.Key, _ domain.Tier) domain.Decision {
	f.checked = append(f.checked, key)
	return f.decision
}

func (f *fakeWindowStore) Reset(key domain.Key) {
	f.reset = append(f.reset, key)
}

func TestCooldownService_AllowsWhenNoStore(t *testing.T) {
	svc := CooldownService{}
	dec := svc.IsRateLimited("Player")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
}

func TestCooldownService_DelegatesDecision(t *testing.T) {
	store := &fakeWindowStore{decision: domain.Decision{Allowed: false, RetryAfter: 7 * time.Second}}
	svc := CooldownService{Store: store, Tier: domain.Tier{Label: "admin", Capacity: 5, Window: 30 * time.Second}}

	dec := svc.IsRateLimited("Player")
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 7*time.Second {
		t.Fatalf("expected RetryAfter=7s, got %s", dec.RetryAfter)
	}
}

func TestCooldownService_KeyIncludesTierLabel(t *testing.T) {
	store := &fakeWindowStore{decision: domain.Decision{Allowed: true}}

	admin := CooldownService{Store: store, Tier: domain.Tier{Label: "admin"}}
	destr := CooldownService{Store: store, Tier: domain.Tier{Label: "destructive"}}

	admin.IsRateLimited("Player")
	destr.IsRateLimited("Player")

	if store.checked[0] == store.checked[1] {
		t.Fatalf("expected distinct keys per tier, got %q twice", store.checked[0])
	}
	if store.checked[0] != domain.JoinKey("admin", "Player") {
		t.Fatalf("expected admin-scoped key, got %q", store.checked[0])
	}
}

func TestCooldownService_ResetTargetsSameKey(t *testing.T) {
	store := &fakeWindowStore{decision: domain.Decision{Allowed: true}}
	svc := CooldownService{Store: store, Tier: domain.Tier{Label: "query"}}

	svc.IsRateLimited("Player")
	svc.Reset("Player")

	if len(store.reset) != 1 || store.reset[0] != store.checked[0] {
		t.Fatalf("expected Reset to clear the checked key, got %v", store.reset)
	}
}
