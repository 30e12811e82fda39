package filter

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/laptoprec/core"
)

func items(ids ...string) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for i, id := range ids {
		out = append(out, core.NewItem(&core.Laptop{
			ID:    id,
			Brand: "acer",
			Price: core.Price{Current: float64(500 * (i + 1))},
		}, core.SourceContent))
	}
	return out
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestExcludeFilter(t *testing.T) {
	rctx := &core.RecommendContext{
		ItemID:  "t",
		Exclude: map[string]struct{}{"b": {}},
	}
	node := &FilterNode{Filters: []Filter{NewExcludeFilter("d")}}

	in := items("a", "t", "b", "c", "d")
	got, err := node.Process(context.Background(), rctx, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if want := []string{"a", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
	if lbl := in[2].Labels["filtered"]; lbl.Source != "filter.exclude" {
		t.Errorf("filtered label = %+v", lbl)
	}
}

func TestExcludeFilter_NilContext(t *testing.T) {
	f := &ExcludeFilter{ItemIDs: []string{"x"}}
	for id, want := range map[string]bool{"x": true, "y": false} {
		got, err := f.ShouldFilter(context.Background(), nil, items(id)[0])
		if err != nil || got != want {
			t.Errorf("ShouldFilter(%s) = %v, %v; want %v", id, got, err, want)
		}
	}
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`item.price <= 1000`)
	if err != nil {
		t.Fatalf("NewExprFilter: %v", err)
	}
	if f.Expr() != `item.price <= 1000` {
		t.Errorf("Expr = %q", f.Expr())
	}
	node := &FilterNode{Filters: []Filter{f}}
	// 价格依次为 500, 1000, 1500
	got, err := node.Process(context.Background(), &core.RecommendContext{}, items("a", "b", "c"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestExprFilter_Invalid(t *testing.T) {
	_, err := NewExprFilter(`item.price <=`)
	if !core.IsInvalidInput(err) {
		t.Errorf("err = %v, want invalid input", err)
	}
}

func TestFilterNode_FirstMatchWins(t *testing.T) {
	cheap := FilterFunc{FilterName: "filter.cheap", Fn: func(_ context.Context, _ *core.RecommendContext, it *core.Item) (bool, error) {
		return it.Laptop.Price.Current < 600, nil
	}}
	node := &FilterNode{Filters: []Filter{cheap, NewExcludeFilter("a")}}
	in := items("a", "b")
	got, err := node.Process(context.Background(), &core.RecommendContext{}, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if want := []string{"b"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
	if lbl := in[0].Labels["filtered"]; lbl.Source != "filter.cheap" {
		t.Errorf("filtered label = %+v, want filter.cheap", lbl)
	}
}

func TestFilterNode_KeepsItemOnFilterError(t *testing.T) {
	f, err := NewExprFilter(`item.price < 100`)
	if err != nil {
		t.Fatalf("NewExprFilter: %v", err)
	}
	node := &FilterNode{Filters: []Filter{f}}
	in := []*core.Item{{ID: "no-laptop"}}
	got, err := node.Process(context.Background(), &core.RecommendContext{}, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want item kept on filter error", len(got))
	}
}
