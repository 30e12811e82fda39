package core

import "strings"

// BasedOnSimilarUsers 是行为召回候选的推荐理由。
const BasedOnSimilarUsers = "similar users"

// ReasonsLabel 是个性化召回写入推荐理由的 Label key，多条理由以 '|' 累积。
const ReasonsLabel = "reasons"

// Candidate 是对外输出的推荐结果（RecommendationCandidate），可直接 JSON 序列化。
//
// 内容召回候选携带 similarity_score（余弦相似度）；行为召回候选不打分，
// 以 recommendation_type / based_on 标识来源；个性化召回候选携带 match_score 与 reasons。
// 融合分数从不出现在输出中。
type Candidate struct {
	LaptopID           string          `json:"laptop_id"`
	Name               string          `json:"name"`
	Brand              string          `json:"brand"`
	Price              float64         `json:"price"`
	SimilarityScore    *float64        `json:"similarity_score,omitempty"`
	Specifications     *Specifications `json:"specifications,omitempty"`
	RecommendationType string          `json:"recommendation_type,omitempty"`
	BasedOn            string          `json:"based_on,omitempty"`
	MatchScore         *float64        `json:"match_score,omitempty"`
	Reasons            []string        `json:"reasons,omitempty"`
}

// NewCandidate 把链路中的 Item 渲染为对外输出。
func NewCandidate(it *Item) Candidate {
	c := Candidate{LaptopID: it.ID}
	if it.Laptop != nil {
		specs := it.Laptop.Specifications
		c.Name = it.Laptop.Name
		c.Brand = it.Laptop.Brand
		c.Price = it.Laptop.Price.Current
		c.Specifications = &specs
	}
	switch it.Source {
	case SourceCollaborative:
		c.RecommendationType = SourceCollaborative
		c.BasedOn = BasedOnSimilarUsers
	case SourcePersonalized:
		score := it.Score
		c.RecommendationType = SourcePersonalized
		c.MatchScore = &score
		if lbl, ok := it.Labels[ReasonsLabel]; ok && lbl.Value != "" {
			c.Reasons = strings.Split(lbl.Value, "|")
		}
	default:
		score := it.Score
		c.SimilarityScore = &score
	}
	return c
}

// NewCandidates 批量渲染，空输入返回非 nil 的空切片（序列化为 []）。
func NewCandidates(items []*Item) []Candidate {
	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, NewCandidate(it))
	}
	return out
}
