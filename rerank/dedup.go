package rerank

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// Dedup 按商品 ID 去重，保留第一个出现的（first-wins）。
// 上游不同策略可能命中同一商品；拼接顺序决定归属。
type Dedup struct{}

func (n *Dedup) Name() string {
	return "rerank.dedup"
}

func (n *Dedup) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Dedup) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Recommendation,
) ([]*core.Recommendation, error) {
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]*core.Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil || it.Product == nil {
			continue
		}
		if _, ok := seen[it.Product.ID]; ok {
			continue
		}
		seen[it.Product.ID] = struct{}{}
		out = append(out, it)
	}
	return out, nil
}
