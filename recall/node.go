package recall

import (
	"context"

	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/pipeline"
)

// Node 把一个 Source 包装成 Recall 阶段的 pipeline.Node。
// 召回节点忽略上游 items，输出即候选集。
type Node struct {
	Source Source
}

func NewNode(src Source) *Node {
	return &Node{Source: src}
}

func (n *Node) Name() string        { return n.Source.Name() }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return n.Source.Recall(ctx, rctx)
}
