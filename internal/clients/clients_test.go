package clients

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"timesheet-service/internal/config"
	"timesheet-service/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()

	cfg := &config.Storage{SQLite: &config.SQLLiteStorage{Path: ":memory:"}}
	provider := storage.NewProvider(cfg)
	if provider == nil {
		t.Fatal("failed to initialize test provider")
	}
	t.Cleanup(func() { provider.Close() })

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := NewStore(provider)
	store.SetClock(func() time.Time { return now })
	return store, &now
}

func TestAddAndFindByID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	fields := Fields{
		Name:          "ABC Corporation",
		Address:       "123 Business Ave",
		ContactPerson: "Sarah Johnson",
		Phone:         "+1 (555) 234-5678",
		Email:         "sarah@abccorp.com",
		IsActive:      true,
	}
	added, err := store.Add(ctx, fields)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID == "" || added.CreatedAt == "" {
		t.Errorf("Add must assign id and creation timestamp: %+v", added)
	}

	found := store.FindByID(ctx, added.ID)
	if found == nil {
		t.Fatal("FindByID returned nil for just-added client")
	}
	if !reflect.DeepEqual(*found, *added) {
		t.Errorf("found = %+v, want %+v", found, added)
	}
}

func TestAddRequiresName(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Add(context.Background(), Fields{Address: "nowhere"}); !errors.Is(err, ErrNameRequired) {
		t.Errorf("Add without name = %v, want ErrNameRequired", err)
	}
}

func TestUpdateShallowMerge(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, Fields{Name: "Tech Solutions Inc", Phone: "+1 (555) 345-6789", IsActive: true})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	phone := "+1 (555) 000-0000"
	inactive := false
	if err := store.Update(ctx, added.ID, Patch{Phone: &phone, IsActive: &inactive}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := store.FindByID(ctx, added.ID)
	if got.Phone != phone {
		t.Errorf("phone = %q, want %q", got.Phone, phone)
	}
	if got.IsActive {
		t.Error("isActive not updated")
	}
	if got.Name != "Tech Solutions Inc" {
		t.Errorf("untouched field changed: name = %q", got.Name)
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, Fields{Name: "Green Energy Co", IsActive: true}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before := store.List(ctx)

	name := "X"
	if err := store.Update(ctx, "nonexistent-id", Patch{Name: &name}); err != nil {
		t.Fatalf("Update(nonexistent) = %v, want nil", err)
	}

	after := store.List(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("client list changed by no-op update: %+v vs %+v", before, after)
	}
}

func TestDelete(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	first, err := store.Add(ctx, Fields{Name: "First", IsActive: true})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	*now = now.Add(time.Second)
	second, err := store.Add(ctx, Fields{Name: "Second", IsActive: true})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := store.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.FindByID(ctx, first.ID) != nil {
		t.Error("deleted client still findable")
	}
	if store.FindByID(ctx, second.ID) == nil {
		t.Error("unrelated client lost on delete")
	}

	// Unknown id is a silent no-op.
	if err := store.Delete(ctx, "nonexistent-id"); err != nil {
		t.Errorf("Delete(nonexistent) = %v, want nil", err)
	}
}

func TestActiveOnly(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, Fields{Name: "Active Co", IsActive: true}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	*now = now.Add(time.Second)
	if _, err := store.Add(ctx, Fields{Name: "Dormant Co", IsActive: false}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	active := store.ActiveOnly(ctx)
	if len(active) != 1 || active[0].Name != "Active Co" {
		t.Errorf("ActiveOnly = %+v, want only Active Co", active)
	}
}

func TestSeed(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	seeded := store.List(ctx)
	if len(seeded) != 3 {
		t.Fatalf("seeded %d clients, want 3", len(seeded))
	}

	// Seeding again must not duplicate.
	if err := store.Seed(ctx); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if got := store.List(ctx); len(got) != 3 {
		t.Errorf("second seed changed list: %d clients", len(got))
	}
}
