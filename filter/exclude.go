package filter

import (
	"context"

	"github.com/rushteam/laptoprec/core"
)

// ExcludeFilter 过滤目标笔记本本身、调用方指定的排除 ID（rctx.Exclude）
// 以及静态配置的 ItemIDs。
type ExcludeFilter struct {
	// ItemIDs 是静态排除列表（可选）
	ItemIDs []string

	ids map[string]struct{}
}

// NewExcludeFilter 创建一个排除过滤器。
func NewExcludeFilter(itemIDs ...string) *ExcludeFilter {
	ids := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		ids[id] = struct{}{}
	}
	return &ExcludeFilter{ItemIDs: itemIDs, ids: ids}
}

func (f *ExcludeFilter) Name() string {
	return "filter.exclude"
}

func (f *ExcludeFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx != nil && rctx.ItemID != "" && item.ID == rctx.ItemID {
		return true, nil
	}
	if rctx.IsExcluded(item.ID) {
		return true, nil
	}
	if f.ids != nil {
		_, ok := f.ids[item.ID]
		return ok, nil
	}
	for _, id := range f.ItemIDs {
		if id == item.ID {
			return true, nil
		}
	}
	return false, nil
}
