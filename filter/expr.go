package filter

import (
	"context"

	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式筛选候选：表达式为 true 的保留，false 的过滤。
//
// 示例：
//
//	f, err := filter.NewExprFilter(`item.price <= 1500 && item.ram >= 16`)
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译表达式；表达式无效返回 INVALID_INPUT 的 DomainError。
func NewExprFilter(expr string) (*ExprFilter, error) {
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, &core.DomainError{
			Module:  core.ModuleFilter,
			Code:    core.ErrorCodeInvalidInput,
			Message: "filter: invalid expression: " + err.Error(),
		}
	}
	return &ExprFilter{program: p}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

// Expr 返回原始表达式。
func (f *ExprFilter) Expr() string {
	return f.program.String()
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.program.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
