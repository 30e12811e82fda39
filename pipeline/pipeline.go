package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/laptoprec/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链：recall -> filter -> rerank。
type Pipeline struct {
	Nodes []Node

	// Hook 在每个 Node 执行完后调用（可选），用于日志/观测
	Hook func(node Node, in, out int)
}

// Run 顺序执行各 Node。任一 Node 出错立即返回，错误带上 Node 名称。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		if p.Hook != nil {
			p.Hook(node, len(cur), len(next))
		}
		cur = next
	}
	return cur, nil
}
