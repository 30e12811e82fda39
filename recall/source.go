package recall

import (
	"context"

	"github.com/rushteam/laptoprec/core"
)

// Source 表示一个可复用的召回源（内容 / 行为 / 融合）。
// 每次调用只依赖传入的 rctx，不在请求间保留状态，可并发调用。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

var defaults core.RecallConfig = &core.DefaultRecallConfig{}

// topK 依次取 rctx.TopK、召回源配置、全局默认值。
func topK(rctx *core.RecommendContext, configured int) int {
	if rctx != nil && rctx.TopK > 0 {
		return rctx.TopK
	}
	if configured > 0 {
		return configured
	}
	return defaults.DefaultTopK()
}
