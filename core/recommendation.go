package core

import "github.com/rushteam/shoprec/pkg/utils"

// Strategy 标识产出一条推荐的策略，随结果透传给展示层。
type Strategy string

const (
	StrategyCollaborative  Strategy = "collaborative_filtering" // 协同过滤
	StrategyContentBased   Strategy = "content_based"           // 内容匹配
	StrategyTrending       Strategy = "trending"                // 趋势热门
	StrategyComplementary  Strategy = "complementary"           // 购物篮关联
	StrategyRecentlyViewed Strategy = "recently_viewed"         // 最近浏览
)

// Recommendation 是推荐链路中的统一承载结构：商品引用、分数、解释、策略来源。
// 每次请求新建、用完即弃，不落库。
// Labels 用于解释与策略驱动；Score 用于排序决策，约束非负。
type Recommendation struct {
	Product  *Product
	Score    float64
	Reason   string
	Strategy Strategy
	Labels   map[string]utils.Label
}

func NewRecommendation(p *Product) *Recommendation {
	return &Recommendation{
		Product: p,
		Labels:  make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (r *Recommendation) PutLabel(key string, lbl utils.Label) {
	if r.Labels == nil {
		r.Labels = make(map[string]utils.Label)
	}
	if old, ok := r.Labels[key]; ok {
		r.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	r.Labels[key] = lbl
}
