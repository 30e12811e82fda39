package recall

import (
	"context"
	"sort"

	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/feature"
	"github.com/rushteam/laptoprec/pkg/utils"
)

// ContentRecall 是基于内容的召回源（Content Similarity Ranker）。
//
// 核心思想："和目标笔记本描述相似的笔记本"
//
// 算法流程：
//  1. 全量拉取目录，按拉取顺序编码为文本（feature.EncodeCatalog）
//  2. 在本次目录上拟合 TF-IDF（去停用词），得到每台笔记本的向量
//  3. 计算目标与每台笔记本的余弦相似度
//  4. 按相似度降序稳定排序（并列时保持目录顺序），剔除目标本身，取 TopK
//
// 目录为空、目标不在目录中均返回空结果，不是错误。
// 向量空间只在单次请求内有效，不缓存。
type ContentRecall struct {
	Catalog core.Catalog

	// TopK 默认返回条数，rctx.TopK > 0 时以 rctx 为准
	TopK int

	// StopWords 停用词，nil 表示英文停用词
	StopWords feature.StopWords
}

func (r *ContentRecall) Name() string {
	return "recall.content"
}

func (r *ContentRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || rctx.ItemID == "" {
		return nil, nil
	}

	laptops, err := r.Catalog.FetchAllItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(laptops) == 0 {
		return nil, nil
	}

	target := -1
	for i, l := range laptops {
		if l != nil && l.ID == rctx.ItemID {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, nil
	}

	stopWords := r.StopWords
	if stopWords == nil {
		stopWords = feature.EnglishStopWords
	}
	vectors := feature.NewTFIDFVectorizer(stopWords).FitTransform(feature.EncodeCatalog(laptops))

	type scored struct {
		laptop *core.Laptop
		score  float64
	}
	candidates := make([]scored, 0, len(laptops)-1)
	seen := make(map[string]struct{}, len(laptops))
	seen[rctx.ItemID] = struct{}{}
	for i, l := range laptops {
		if l == nil {
			continue
		}
		if _, ok := seen[l.ID]; ok {
			continue
		}
		seen[l.ID] = struct{}{}
		candidates = append(candidates, scored{
			laptop: l,
			score:  feature.Cosine(vectors[target], vectors[i]),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	k := topK(rctx, r.TopK)
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, c := range candidates {
		it := core.NewItem(c.laptop, core.SourceContent)
		it.Score = c.score
		it.PutLabel("recall_source", utils.Label{Value: core.SourceContent, Source: "recall"})
		it.PutLabel("recall_metric", utils.Label{Value: "tfidf_cosine", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
