package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// ScoreSort 按分数降序排序。稳定排序：同分项保持输入顺序，
// 配合聚合器"协同过滤在前"的拼接顺序，同分时归属协同过滤。
type ScoreSort struct{}

func (n *ScoreSort) Name() string {
	return "rerank.sort"
}

func (n *ScoreSort) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *ScoreSort) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Recommendation,
) ([]*core.Recommendation, error) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items, nil
}
