package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rushteam/laptoprec/core"
)

func newTestCatalog(t *testing.T) *KVCatalog {
	t.Helper()
	ctx := context.Background()
	c := NewKVCatalog(NewMemoryStore(), "")
	for _, l := range []*core.Laptop{
		{ID: "L1", Name: "Nitro 5", Brand: "acer", Category: "gaming", Price: core.Price{Current: 999}},
		{ID: "L2", Name: "XPS 13", Brand: "dell", Category: "ultrabook"},
		{ID: "L3", Name: "ThinkPad", Brand: "lenovo", Category: "business"},
	} {
		if err := c.PutLaptop(ctx, l); err != nil {
			t.Fatalf("PutLaptop(%s): %v", l.ID, err)
		}
	}
	for _, p := range []*core.UserPreference{
		{UserID: "u1", Preferences: core.Preferences{UsageType: "gaming"}},
		{UserID: "u2", Preferences: core.Preferences{UsageType: "gaming"}},
		{UserID: "u3"},
		{UserID: "u4", Preferences: core.Preferences{UsageType: "gaming"}},
	} {
		if err := c.PutUserPreference(ctx, p); err != nil {
			t.Fatalf("PutUserPreference(%s): %v", p.UserID, err)
		}
	}
	return c
}

func TestKVCatalog_FetchAllItems(t *testing.T) {
	c := newTestCatalog(t)
	items, err := c.FetchAllItems(context.Background())
	if err != nil {
		t.Fatalf("FetchAllItems: %v", err)
	}
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	if want := []string{"L1", "L2", "L3"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if items[1].Price.Currency != core.DefaultCurrency {
		t.Errorf("currency = %q, want default %q", items[1].Price.Currency, core.DefaultCurrency)
	}
}

func TestKVCatalog_EmptyCatalog(t *testing.T) {
	c := NewKVCatalog(NewMemoryStore(), "empty")
	items, err := c.FetchAllItems(context.Background())
	if err != nil || len(items) != 0 {
		t.Errorf("FetchAllItems = %v, %v; want empty", items, err)
	}
}

func TestKVCatalog_FetchItem(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	l, err := c.FetchItem(ctx, "L2")
	if err != nil || l == nil || l.Name != "XPS 13" {
		t.Fatalf("FetchItem(L2) = %+v, %v", l, err)
	}
	l, err = c.FetchItem(ctx, "nope")
	if err != nil || l != nil {
		t.Errorf("FetchItem(nope) = %+v, %v; want nil, nil", l, err)
	}
}

func TestKVCatalog_FetchPeerUsers(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		exclude string
		usage   string
		limit   int
		want    []string
	}{
		{"same intent excludes self", "u1", "gaming", 5, []string{"u2", "u4"}},
		{"limit", "u1", "gaming", 1, []string{"u2"}},
		{"absent usage counts as general", "", core.DefaultUsageType, 5, []string{"u3"}},
		{"no peers", "u1", "office", 5, nil},
		{"zero limit", "u1", "gaming", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			peers, err := c.FetchPeerUsers(ctx, tt.exclude, tt.usage, tt.limit)
			if err != nil {
				t.Fatalf("FetchPeerUsers: %v", err)
			}
			var got []string
			for _, p := range peers {
				got = append(got, p.UserID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("peers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKVCatalog_RecordInteractions(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return at }

	if err := c.RecordView(ctx, "u1", "L1", 4); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if err := c.RecordView(ctx, "u1", "L1", 2); err != nil {
		t.Fatalf("RecordView again: %v", err)
	}
	if err := c.RecordSave(ctx, "u1", "L2", "maybe"); err != nil {
		t.Fatalf("RecordSave: %v", err)
	}
	if err := c.RecordSave(ctx, "u1", "L2", ""); err != nil {
		t.Fatalf("RecordSave again: %v", err)
	}

	p, err := c.FetchUserPreferences(ctx, "u1")
	if err != nil || p == nil {
		t.Fatalf("FetchUserPreferences = %+v, %v", p, err)
	}
	if len(p.ViewedLaptops) != 1 || p.ViewedLaptops[0].Rating != 4 {
		t.Errorf("viewed = %+v, want single view with rating 4", p.ViewedLaptops)
	}
	if len(p.SavedLaptops) != 2 || p.SavedLaptops[0].Note != "maybe" {
		t.Errorf("saved = %+v, want two saves", p.SavedLaptops)
	}
	if !p.LastUpdated.Equal(at) {
		t.Errorf("lastUpdated = %v, want %v", p.LastUpdated, at)
	}

	err = c.RecordView(ctx, "ghost", "L1", 0)
	if !errors.Is(err, core.ErrUserPreferenceNotFound) || !core.IsNotFound(err) {
		t.Errorf("RecordView(ghost) err = %v, want user preference not found", err)
	}
	if err := c.RecordSave(ctx, "ghost", "L1", ""); !core.IsNotFound(err) {
		t.Errorf("RecordSave(ghost) err = %v, want not found", err)
	}
}

func TestKVCatalog_PutValidation(t *testing.T) {
	c := NewKVCatalog(NewMemoryStore(), "")
	if err := c.PutLaptop(context.Background(), &core.Laptop{}); !core.IsInvalidInput(err) {
		t.Errorf("PutLaptop(no id) err = %v, want invalid input", err)
	}
	if err := c.PutUserPreference(context.Background(), nil); !core.IsInvalidInput(err) {
		t.Errorf("PutUserPreference(nil) err = %v, want invalid input", err)
	}
}

type failingStore struct{ *MemoryStore }

var errBackend = errors.New("backend down")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errBackend }

func TestKVCatalog_PropagatesStoreFailure(t *testing.T) {
	c := NewKVCatalog(failingStore{NewMemoryStore()}, "")
	ctx := context.Background()
	if _, err := c.FetchAllItems(ctx); !errors.Is(err, errBackend) {
		t.Errorf("FetchAllItems err = %v, want backend error", err)
	}
	if _, err := c.FetchItem(ctx, "L1"); !errors.Is(err, errBackend) {
		t.Errorf("FetchItem err = %v, want backend error", err)
	}
	if _, err := c.FetchUserPreferences(ctx, "u1"); !errors.Is(err, errBackend) {
		t.Errorf("FetchUserPreferences err = %v, want backend error", err)
	}
}

func TestKVCatalog_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	c := NewKVCatalog(kv, "")
	if err := c.PutLaptop(ctx, &core.Laptop{ID: "L1", Name: "Nitro 5"}); err != nil {
		t.Fatalf("PutLaptop: %v", err)
	}
	if err := kv.Set(ctx, c.itemKey("L1"), []byte("{not json")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, err := c.FetchItem(ctx, "L1")
	if de := core.GetDomainError(err); de == nil || de.Code != core.ErrorCodeInternalError {
		t.Errorf("FetchItem err = %v, want INTERNAL_ERROR", err)
	}
	_, err = c.FetchAllItems(ctx)
	if de := core.GetDomainError(err); de == nil || de.Code != core.ErrorCodeInternalError {
		t.Errorf("FetchAllItems err = %v, want INTERNAL_ERROR", err)
	}
}

func TestReadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	data := `{
  "laptops": [{"_id": "A", "name": "Aspire", "brand": "acer", "specifications": {"ram": 8}}],
  "userPreferences": [{"userId": "u1", "preferences": {"usageType": "office"},
    "viewedLaptops": [{"laptopId": "A", "viewedAt": "2024-01-02T00:00:00Z", "rating": 5}]}]
}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	seed, err := ReadSeedFile(path)
	if err != nil {
		t.Fatalf("ReadSeedFile: %v", err)
	}

	c := NewKVCatalog(NewMemoryStore(), "")
	ctx := context.Background()
	if err := c.Load(ctx, seed); err != nil {
		t.Fatalf("Load: %v", err)
	}
	l, _ := c.FetchItem(ctx, "A")
	if l == nil {
		t.Fatal("FetchItem(A) = nil")
	}
	if ram, ok := l.Specifications.RAMValue(); !ok || ram != 8 {
		t.Errorf("ram = %v, %v; want 8", ram, ok)
	}
	p, _ := c.FetchUserPreferences(ctx, "u1")
	if p == nil || p.UsageType() != "office" || !p.HasViewed("A") {
		t.Errorf("FetchUserPreferences(u1) = %+v", p)
	}
}
