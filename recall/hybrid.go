package recall

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/pkg/utils"
)

// Hybrid 是融合召回源（Rank Fusion）：内容召回为主，行为召回加分。
//
// 规则：
//   - 两路都向下游多要 TopK × Headroom 个候选
//   - 未指定用户时直接返回内容召回的前 TopK 个，不做融合
//   - 融合分 = 内容相似度 × ContentWeight；行为召回命中再加 BehaviorWeight，
//     只被行为召回命中的候选得分为 BehaviorWeight
//   - 按融合分降序稳定排序（并列时按插入顺序：先内容、后行为）
//   - 同时命中时输出内容召回的候选（保留 similarity_score），融合分不写回 Item
//   - 目标物品与 rctx.Exclude 在截断前剔除，多要的候选用于补位
//
// 两路召回互不依赖，使用 errgroup 并发执行，不互相取消：两路都跑完后
// 返回第一个错误。
type Hybrid struct {
	Content  Source
	Behavior Source

	// ContentWeight / BehaviorWeight 融合权重，<= 0 时为 0.7 / 0.3
	ContentWeight  float64
	BehaviorWeight float64

	// Headroom 向单路召回多要的倍数，<= 0 时为 2
	Headroom int

	// TopK 默认返回条数，rctx.TopK > 0 时以 rctx 为准
	TopK int
}

// Fused 是融合后的候选及其融合分（只用于排序）。
type Fused struct {
	Item  *core.Item
	Score float64
}

func (h *Hybrid) Name() string {
	return "recall.hybrid"
}

func (h *Hybrid) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || h.Content == nil {
		return nil, nil
	}

	k := topK(rctx, h.TopK)
	headroom := h.Headroom
	if headroom <= 0 {
		headroom = defaults.DefaultHeadroom()
	}
	sub := rctx.WithTopK(k * headroom)

	if rctx.UserID == "" || h.Behavior == nil {
		content, err := h.Content.Recall(ctx, sub)
		if err != nil {
			return nil, err
		}
		return truncate(withoutExcluded(content, rctx), k), nil
	}

	var content, behavior []*core.Item
	var eg errgroup.Group
	eg.Go(func() error {
		var err error
		content, err = h.Content.Recall(ctx, sub)
		return err
	})
	eg.Go(func() error {
		var err error
		behavior, err = h.Behavior.Recall(ctx, sub)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	fused := h.Merge(withoutExcluded(content, rctx), withoutExcluded(behavior, rctx))
	out := make([]*core.Item, 0, min(k, len(fused)))
	for _, f := range fused {
		if len(out) >= k {
			break
		}
		out = append(out, f.Item)
	}
	return out, nil
}

// Merge 按融合规则合并两路结果，返回按融合分降序（并列按插入顺序）的完整列表。
func (h *Hybrid) Merge(content, behavior []*core.Item) []Fused {
	cw, bw := h.ContentWeight, h.BehaviorWeight
	if cw <= 0 {
		cw = defaults.DefaultContentWeight()
	}
	if bw <= 0 {
		bw = defaults.DefaultBehaviorWeight()
	}

	board := newScoreBoard(len(content) + len(behavior))
	for _, it := range content {
		if it == nil {
			continue
		}
		board.add(it, it.Score*cw)
	}
	for _, it := range behavior {
		if it == nil {
			continue
		}
		board.add(it, bw)
	}
	return board.sorted()
}

// scoreBoard 是按插入顺序记录的 ID -> 融合分映射。
// 同一 ID 再次出现时只累加分数，保留第一次插入的 Item，并合并其 Labels。
type scoreBoard struct {
	index   map[string]int
	entries []Fused
}

func newScoreBoard(capacity int) *scoreBoard {
	return &scoreBoard{
		index:   make(map[string]int, capacity),
		entries: make([]Fused, 0, capacity),
	}
}

func (b *scoreBoard) add(it *core.Item, score float64) {
	if i, ok := b.index[it.ID]; ok {
		kept := b.entries[i].Item
		kept.Labels = utils.MergeLabels(kept.Labels, it.Labels)
		b.entries[i].Score += score
		return
	}
	b.index[it.ID] = len(b.entries)
	b.entries = append(b.entries, Fused{Item: it, Score: score})
}

func (b *scoreBoard) sorted() []Fused {
	out := make([]Fused, len(b.entries))
	copy(out, b.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// withoutExcluded 剔除目标物品与调用方排除的 ID。
func withoutExcluded(items []*core.Item, rctx *core.RecommendContext) []*core.Item {
	out := items[:0:0]
	for _, it := range items {
		if it == nil || (rctx.ItemID != "" && it.ID == rctx.ItemID) || rctx.IsExcluded(it.ID) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func truncate(items []*core.Item, k int) []*core.Item {
	if k > 0 && len(items) > k {
		return items[:k]
	}
	return items
}
