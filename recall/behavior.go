package recall

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/pkg/utils"
)

// BehaviorRecall 是基于相似用户行为的召回源（Behavior Similarity Ranker）。
//
// 核心思想："同样用途的用户看过/收藏过的笔记本"
//
// 算法流程：
//  1. 读取请求用户的偏好记录，不存在返回空
//  2. 用户浏览过、收藏过的笔记本作为排除集合
//  3. 取至多 PeerLimit 个使用场景相同的其他用户
//  4. 按“用户顺序 -> 先浏览后收藏”收集笔记本 ID，首次出现的保留
//  5. 逐个解析 ID，已删除的笔记本直接丢弃，凑满 TopK 即停止
//
// 不计算分数：候选以 recommendation_type=collaborative、based_on=similar users 标识。
type BehaviorRecall struct {
	Catalog core.Catalog

	// TopK 默认返回条数，rctx.TopK > 0 时以 rctx 为准
	TopK int

	// PeerLimit 最多参考的相似用户数，<= 0 时为 5
	PeerLimit int

	// Logger 记录被丢弃的失效 ID（debug 级别），零值不输出
	Logger zerolog.Logger
}

func (r *BehaviorRecall) Name() string {
	return "recall.collaborative"
}

func (r *BehaviorRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	pref, err := r.Catalog.FetchUserPreferences(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, nil
	}

	peerLimit := r.PeerLimit
	if peerLimit <= 0 {
		peerLimit = defaults.DefaultPeerLimit()
	}
	peers, err := r.Catalog.FetchPeerUsers(ctx, rctx.UserID, pref.UsageType(), peerLimit)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, id := range pref.KnownLaptops() {
		seen[id] = struct{}{}
	}

	var ordered []string
	for _, peer := range peers {
		if peer == nil || peer.UserID == rctx.UserID {
			continue
		}
		for _, id := range peer.KnownLaptops() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ordered = append(ordered, id)
		}
	}

	k := topK(rctx, r.TopK)
	out := make([]*core.Item, 0, min(k, len(ordered)))
	for _, id := range ordered {
		if len(out) >= k {
			break
		}
		laptop, err := r.Catalog.FetchItem(ctx, id)
		if err != nil {
			return nil, err
		}
		if laptop == nil {
			r.Logger.Debug().Str("laptop_id", id).Str("user_id", rctx.UserID).Msg("drop stale laptop reference")
			continue
		}
		it := core.NewItem(laptop, core.SourceCollaborative)
		it.PutLabel("recall_source", utils.Label{Value: core.SourceCollaborative, Source: "recall"})
		it.PutLabel("based_on", utils.Label{Value: core.BasedOnSimilarUsers, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
