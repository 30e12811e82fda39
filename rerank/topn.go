package rerank

import (
	"context"

	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，放在过滤之后，决定最终返回条数。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        recall.NewNode(&recall.ContentRecall{...}), // 召回
//	        &filter.FilterNode{...},                    // 过滤
//	        &rerank.TopNNode{N: 10},                    // 截取 Top 10
//	    },
//	}
type TopNNode struct {
	// N 要保留的物品数量
	// 如果 N <= 0，则使用 rctx.TopK；两者都 <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.TopK
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
