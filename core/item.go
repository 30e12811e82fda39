package core

import "github.com/rushteam/laptoprec/pkg/utils"

// 召回来源，决定候选最终输出的形态。
const (
	SourceContent       = "content"
	SourceCollaborative = "collaborative"
	SourcePersonalized  = "personalized"
)

// Item 是推荐链路中的统一承载结构：目标笔记本、分数、来源、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
//
// Score 的语义随 Source 变化：内容召回为余弦相似度 [0,1]；行为召回不打分（恒为 0）；
// 个性化召回为偏好匹配度 [0,1]。
// 融合分数只用于排序，不写回 Item。
type Item struct {
	ID     string
	Score  float64
	Source string
	Laptop *Laptop
	Labels map[string]utils.Label
}

func NewItem(laptop *Laptop, source string) *Item {
	return &Item{
		ID:     laptop.ID,
		Source: source,
		Laptop: laptop,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
