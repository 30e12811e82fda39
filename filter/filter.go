package filter

import (
	"context"

	"github.com/rushteam/laptoprec/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
// 返回 error 时 FilterNode 保留该物品，继续执行后续过滤器。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// FilterFunc 把普通函数适配为 Filter。
type FilterFunc struct {
	FilterName string
	Fn         func(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

func (f FilterFunc) Name() string { return f.FilterName }

func (f FilterFunc) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	return f.Fn(ctx, rctx, item)
}
