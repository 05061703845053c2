package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Source 表示一个可复用的召回策略（协同过滤/内容/趋势/购物篮关联/...）。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Recommendation, error)
}

// limitOr 解析请求级 limit：rctx.Limit 优先，其次策略自身 TopK，最后 fallback。
func limitOr(rctx *core.RecommendContext, topK, fallback int) int {
	if rctx != nil && rctx.Limit > 0 {
		return rctx.Limit
	}
	if topK > 0 {
		return topK
	}
	return fallback
}
