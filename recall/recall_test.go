package recall

import (
	"context"
	"testing"

	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/store"
)

func ram(v float64) *float64 { return &v }

func testLaptops() []*core.Laptop {
	return []*core.Laptop{
		{ID: "1", Name: "Nitro 5", Brand: "acer", Category: "gaming",
			Specifications: core.Specifications{Processor: "Intel Core i7", RAM: ram(16), Storage: "512GB SSD", GPU: "NVIDIA RTX 3060"},
			Price:          core.Price{Current: 1299}},
		{ID: "2", Name: "Aspire 7", Brand: "acer", Category: "gaming",
			Specifications: core.Specifications{Processor: "Intel Core i5", RAM: ram(8), Storage: "512GB SSD", GPU: "NVIDIA RTX 3050"},
			Price:          core.Price{Current: 999}},
		{ID: "3", Name: "Latitude", Brand: "dell", Category: "business",
			Specifications: core.Specifications{Processor: "Intel Core i7", RAM: ram(16), Storage: "1TB SSD", GPU: "Intel Iris Xe"},
			Price:          core.Price{Current: 1499}},
		{ID: "4", Name: "MacBook Air", Brand: "apple", Category: "ultrabook",
			Specifications: core.Specifications{Processor: "Apple M2", RAM: ram(8), Storage: "256GB SSD", GPU: "Apple 8-core"},
			Price:          core.Price{Current: 1199}},
	}
}

func testUsers() []*core.UserPreference {
	return []*core.UserPreference{
		{UserID: "alice", Preferences: core.Preferences{UsageType: "gaming"},
			ViewedLaptops: []core.ViewedLaptop{{LaptopID: "1"}}},
		{UserID: "bob", Preferences: core.Preferences{UsageType: "gaming"},
			ViewedLaptops: []core.ViewedLaptop{{LaptopID: "1"}, {LaptopID: "3"}},
			SavedLaptops:  []core.SavedLaptop{{LaptopID: "2"}}},
		{UserID: "carol", Preferences: core.Preferences{UsageType: "gaming"},
			ViewedLaptops: []core.ViewedLaptop{{LaptopID: "3"}, {LaptopID: "gone"}, {LaptopID: "4"}}},
		{UserID: "dave", Preferences: core.Preferences{UsageType: "office"},
			ViewedLaptops: []core.ViewedLaptop{{LaptopID: "4"}}},
		{UserID: "erin"},
	}
}

func newTestCatalog(t *testing.T, laptops []*core.Laptop, users []*core.UserPreference) *store.KVCatalog {
	t.Helper()
	c := store.NewKVCatalog(store.NewMemoryStore(), "test")
	if err := c.Load(context.Background(), &store.Seed{Laptops: laptops, UserPreferences: users}); err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return c
}

func itemIDs(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
