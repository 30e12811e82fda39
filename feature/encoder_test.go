package feature

import (
	"testing"

	"github.com/rushteam/laptoprec/core"
)

func ram(v float64) *float64 { return &v }

func TestEncodeLaptop(t *testing.T) {
	tests := []struct {
		name   string
		laptop *core.Laptop
		want   string
	}{
		{
			name: "all fields",
			laptop: &core.Laptop{
				Brand:    "acer",
				Category: "gaming",
				Specifications: core.Specifications{
					Processor: "Intel Core i7",
					RAM:       ram(16),
					Storage:   "512GB SSD",
					GPU:       "NVIDIA RTX 3060",
				},
				Price: core.Price{Current: 1299.99},
			},
			want: "acer gaming Intel Core i7 16GB 512GB SSD NVIDIA RTX 3060 1299.99 ",
		},
		{
			name:   "missing fields render as empty tokens",
			laptop: &core.Laptop{Brand: "dell"},
			want:   "dell   GB   0 ",
		},
		{
			name:   "nil laptop",
			laptop: nil,
			want:   "   GB   0 ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeLaptop(tt.laptop); got != tt.want {
				t.Errorf("EncodeLaptop() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeCatalog_PreservesOrder(t *testing.T) {
	laptops := []*core.Laptop{{Brand: "hp"}, {Brand: "asus"}, {Brand: "hp"}}
	docs := EncodeCatalog(laptops)
	if len(docs) != 3 {
		t.Fatalf("len = %d, want 3", len(docs))
	}
	for i, l := range laptops {
		if docs[i] != EncodeLaptop(l) {
			t.Errorf("docs[%d] = %q, want %q", i, docs[i], EncodeLaptop(l))
		}
	}
	if docs[0] != docs[2] {
		t.Errorf("identical attributes encoded differently: %q vs %q", docs[0], docs[2])
	}
}
