// Package builders 在 init 中注册内置 Node 的构建器，供配置驱动使用。
// 使用方式：import _ "github.com/rushteam/shoprec/config/builders"
//
// 注意：带存储依赖的召回源（recall.collaborative、recall.trending 等）
// 需要注入 Catalog/EngagementStore，不从配置构建，由代码侧组装后放进
// Pipeline；这里只注册纯配置即可构建的节点。
package builders

import (
	"github.com/rushteam/shoprec/config"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/conv"
	"github.com/rushteam/shoprec/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("filter.rule", BuildRuleFilterNode)
	config.Register("rerank.dedup", BuildDedupNode)
	config.Register("rerank.sort", BuildScoreSortNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// BuildFilterNode 构建显式排除过滤节点。
// 配置：exclude_ids: [p1, p2, ...]
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	ids := conv.SliceAnyToString(cfg["exclude_ids"])
	if ids == nil {
		ids = []string{}
	}
	return &filter.FilterNode{
		Filters: []filter.Filter{filter.NewExcludeFilter(ids...)},
	}, nil
}

// BuildRuleFilterNode 构建 CEL 规则过滤节点。
// 配置：expr: 'product.price > 2000.0'
func BuildRuleFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	return &filter.FilterNode{
		Filters: []filter.Filter{filter.NewRuleFilter(expr)},
	}, nil
}

func BuildDedupNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Dedup{}, nil
}

func BuildScoreSortNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &rerank.ScoreSort{}, nil
}

// BuildTopNNode 构建截断节点。配置：n: 10（缺省回落到请求 Limit）
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildDiversityNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{}, nil
}
