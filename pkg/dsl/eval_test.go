package dsl

import (
	"testing"

	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/pkg/utils"
)

func testItem() *core.Item {
	ram := 16.0
	it := core.NewItem(&core.Laptop{
		ID:       "L1",
		Name:     "Nitro 5",
		Brand:    "acer",
		Category: "gaming",
		Specifications: core.Specifications{
			Processor: "Intel Core i7",
			RAM:       &ram,
			GPU:       "NVIDIA RTX 3060",
		},
		Price: core.Price{Current: 1299.99, Currency: "EUR"},
	}, core.SourceContent)
	it.Score = 0.82
	it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
	return it
}

func TestProgram_Eval(t *testing.T) {
	rctx := &core.RecommendContext{ItemID: "L0", UserID: "u1"}
	rctx.PutLabel("mode", utils.Label{Value: "hybrid", Source: "dispatch"})
	tests := []struct {
		expr string
		want bool
	}{
		{`item.price <= 1500`, true},
		{`item.price <= 1000.0`, false},
		{`item.brand == "acer" && item.ram >= 16`, true},
		{`item.category != "gaming"`, false},
		{`item.score > 0.8`, true},
		{`label.recall_source == "content"`, true},
		{`"based_on" in label`, false},
		{`rctx.user_id == "u1" && rctx.item_id == "L0"`, true},
		{`rctx.labels.mode == "hybrid"`, true},
		{`"request_id" in rctx.labels`, false},
		{`item.gpu.contains("RTX")`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got, err := p.Eval(testItem(), rctx)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%s) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, expr := range []string{`item.price <=`, `1 + 2`, `"text"`} {
		if _, err := Compile(expr); err == nil {
			t.Errorf("Compile(%q) succeeded, want error", expr)
		}
	}
}

func TestProgram_EvalMissingField(t *testing.T) {
	p, err := Compile(`item.price < 100`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// 没有 Laptop 时 item.price 不存在，求值报错
	if _, err := p.Eval(&core.Item{ID: "x"}, nil); err == nil {
		t.Error("Eval on item without laptop succeeded, want error")
	}
}
