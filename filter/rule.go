package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// RuleFilter 是表达式规则过滤器：表达式命中（求值为 true）的商品被剔除。
// 规则用 CEL 描述，运营可配置下发，例如：
//   - product.price > 2000.0           → 运营位不出高价商品
//   - label.recall_source == "trending" && product.rating < 3.0
//
// 表达式求值出错时保留该商品（规则损坏不应清空推荐位）。
type RuleFilter struct {
	// Expr 是 CEL 表达式，空表达式不过滤任何商品
	Expr string
}

func NewRuleFilter(expr string) *RuleFilter {
	return &RuleFilter{Expr: expr}
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Recommendation,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}

	hit, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, nil
	}
	return hit, nil
}
