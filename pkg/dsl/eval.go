package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/laptoprec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
		cel.CrossTypeNumericComparisons(true),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译好的候选过滤表达式，使用 CEL (Common Expression Language) 语法。
// 编译一次，可在多个请求间并发复用。
//
// 可用变量：
//   - item.id / item.score / item.source
//   - item.name / item.brand / item.category / item.price / item.currency
//   - item.ram（GB，缺省为 0）/ item.processor / item.gpu / item.storage
//   - label.<key>：召回阶段写入的 Label 值，例如 label.recall_source
//   - rctx.user_id / rctx.item_id
//   - rctx.labels.<key>：请求级 Label 值，例如 rctx.labels.mode
//
// 示例：
//   - `item.price <= 1500`
//   - `item.brand != "apple" && item.ram >= 16`
//   - `label.recall_source == "content"`
//   - `"based_on" in label`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return bool, got %s", t)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对单个候选求值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	in := map[string]any{
		"id":     item.ID,
		"score":  item.Score,
		"source": item.Source,
	}
	if l := item.Laptop; l != nil {
		ram, _ := l.Specifications.RAMValue()
		in["name"] = l.Name
		in["brand"] = l.Brand
		in["category"] = l.Category
		in["price"] = l.Price.Current
		in["currency"] = l.Price.Currency
		in["ram"] = ram
		in["processor"] = l.Specifications.Processor
		in["gpu"] = l.Specifications.GPU
		in["storage"] = l.Specifications.Storage
	}

	r := map[string]any{}
	if rctx != nil {
		reqLabels := make(map[string]any, len(rctx.Labels))
		for k, v := range rctx.Labels {
			reqLabels[k] = v.Value
		}
		r["user_id"] = rctx.UserID
		r["item_id"] = rctx.ItemID
		r["labels"] = reqLabels
	}

	return map[string]any{
		"item":  in,
		"label": labels,
		"rctx":  r,
	}
}
