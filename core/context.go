package core

import "github.com/rushteam/laptoprec/pkg/utils"

// RecommendContext 承载一次推荐请求的目标物品、用户与请求参数，贯穿整个 Pipeline 透传。
// 每个请求独享一个 RecommendContext，不在请求间共享。
type RecommendContext struct {
	// ItemID 是目标笔记本 ID（内容召回 / 混合召回使用）
	ItemID string

	// UserID 是请求用户 ID（行为召回使用，可为空）
	UserID string

	// TopK 是本次请求期望的返回条数，<= 0 时使用召回源自身的默认值
	TopK int

	// Exclude 是调用方额外指定的排除 ID
	Exclude map[string]struct{}

	// Labels 是请求级标签（例如 request_id、mode），过滤表达式可通过 rctx.labels 读取
	Labels map[string]utils.Label
}

// WithTopK 返回一个 TopK 被替换的浅拷贝，原 context 不受影响。
// 融合召回用它向单路召回多要候选。
func (rctx *RecommendContext) WithTopK(k int) *RecommendContext {
	cp := *rctx
	cp.TopK = k
	return &cp
}

// IsExcluded 判断 ID 是否在调用方排除集合中。
func (rctx *RecommendContext) IsExcluded(id string) bool {
	if rctx == nil || rctx.Exclude == nil {
		return false
	}
	_, ok := rctx.Exclude[id]
	return ok
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
