package store

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/rushteam/laptoprec/core"
)

func TestIDString(t *testing.T) {
	oid := bson.NewObjectID()
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"object id", oid, oid.Hex()},
		{"string", "abc", "abc"},
		{"int", int32(7), "7"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idString(tt.in); got != tt.want {
				t.Errorf("idString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIDValue(t *testing.T) {
	oid := bson.NewObjectID()
	if v, ok := idValue(oid.Hex()).(bson.ObjectID); !ok || v != oid {
		t.Errorf("idValue(hex) = %v, want ObjectID", idValue(oid.Hex()))
	}
	if v, ok := idValue("L1").(string); !ok || v != "L1" {
		t.Errorf("idValue(L1) = %v, want string", idValue("L1"))
	}
	if got := idValues(oid.Hex()); len(got) != 2 {
		t.Errorf("idValues(hex) = %v, want both forms", got)
	}
}

func TestUnviewedFilter(t *testing.T) {
	oid := bson.NewObjectID()
	got := unviewedFilter("alice", oid.Hex())
	want := bson.D{
		{Key: "userId", Value: bson.D{{Key: "$in", Value: bson.A{"alice"}}}},
		{Key: "viewedLaptops.laptopId", Value: bson.D{{Key: "$nin", Value: bson.A{oid, oid.Hex()}}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filter = %v, want %v", got, want)
	}
}

func TestLaptopDocDecode(t *testing.T) {
	oid := bson.NewObjectID()
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: oid},
		{Key: "name", Value: "Nitro 5"},
		{Key: "brand", Value: "acer"},
		{Key: "specifications", Value: bson.D{{Key: "ram", Value: int32(16)}, {Key: "gpu", Value: "RTX 3060"}}},
		{Key: "price", Value: bson.D{{Key: "current", Value: 1299.5}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	var doc laptopDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	l := doc.toLaptop()
	if l.ID != oid.Hex() || l.Name != "Nitro 5" || l.Specifications.GPU != "RTX 3060" {
		t.Errorf("laptop = %+v", l)
	}
	if ram, ok := l.Specifications.RAMValue(); !ok || ram != 16 {
		t.Errorf("ram = %v, %v", ram, ok)
	}
	if l.Price.Current != 1299.5 || l.Price.Currency != core.DefaultCurrency {
		t.Errorf("price = %+v", l.Price)
	}
}

func TestUserPreferenceDocConvert(t *testing.T) {
	uid, lid := bson.NewObjectID(), bson.NewObjectID()
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	doc := userPreferenceDoc{
		UserID:        uid,
		ViewedLaptops: []viewedLaptopDoc{{LaptopID: lid, ViewedAt: at, Rating: 3}},
		SavedLaptops:  []savedLaptopDoc{{LaptopID: "L9", SavedAt: at}},
	}
	p := doc.toUserPreference()
	if p.UserID != uid.Hex() || p.UsageType() != core.DefaultUsageType {
		t.Errorf("preference = %+v", p)
	}
	if got := p.KnownLaptops(); len(got) != 2 || got[0] != lid.Hex() || got[1] != "L9" {
		t.Errorf("known = %v", got)
	}
}

func TestPreferencesBSON(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "userId", Value: "u1"}, {Key: "preferences", Value: bson.D{
		{Key: "usageType", Value: "gaming"},
		{Key: "budget", Value: bson.D{{Key: "min", Value: 500.0}, {Key: "max", Value: 1500.0}}},
		{Key: "portability", Value: bson.D{{Key: "importance", Value: 8.0}, {Key: "maxWeight", Value: 1.6}}},
		{Key: "display", Value: bson.D{{Key: "touchscreen", Value: true}}},
	}}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc userPreferenceDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	p := doc.toUserPreference().Preferences
	if p.UsageType != "gaming" || p.Budget.Max != 1500 || p.Portability.Importance != 8 || !p.Display.Touchscreen {
		t.Errorf("preferences = %+v", p)
	}

	out, err := bson.Marshal(core.Preferences{UsageType: "office"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m bson.M
	if err := bson.Unmarshal(out, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["usageType"] != "office" {
		t.Errorf("encoded = %v, want usageType key", m)
	}
}
