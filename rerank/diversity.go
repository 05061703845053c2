package rerank

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// Diversity 是一个简单的多样性 ReRank：按品类去重（保留首个出现的品类）。
// 避免推荐位被单一品类刷屏（例如首页连出 6 扇谷仓门）。
// 默认链路不启用，按场景加到 Pipeline 里。
type Diversity struct{}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Recommendation,
) ([]*core.Recommendation, error) {
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]bool, 16)
	out := make([]*core.Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		cate := it.Product.Category
		if cate != "" && seen[cate] {
			continue
		}
		seen[cate] = true
		out = append(out, it)
	}
	return out, nil
}
