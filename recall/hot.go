package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// DefaultHotKey 是热门榜单在 KV 存储里的默认 key。
const DefaultHotKey = "trending:hot"

// Hot 从预刷的热门榜单读趋势结果，不回放行为日志。
// 榜单由 Trending.Snapshot 周期性刷入（ZAdd），多进程部署时
// 配 store.RedisStore 即可共享同一份榜单，读侧只做 ZRange + 目录反查。
// 榜单为空或未刷新时返回空列表，由调用方决定是否回落到窗口计算。
type Hot struct {
	Catalog core.Catalog
	Store   core.KeyValueStore

	// Key 榜单在存储里的 key，为空时用 DefaultHotKey
	Key string

	// TopK 最终返回的商品数，<= 0 时用默认值
	TopK int
}

func (r *Hot) Name() string {
	return "recall.hot"
}

func (r *Hot) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Recommendation, error) {
	if r.Store == nil || r.Catalog == nil {
		return nil, nil
	}

	key := r.Key
	if key == "" {
		key = DefaultHotKey
	}
	topK := limitOr(rctx, r.TopK, 6)

	members, err := r.Store.ZRange(ctx, key, 0, int64(topK)-1)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Recommendation, 0, len(members))
	for _, productID := range members {
		score, err := r.Store.ZScore(ctx, key, productID)
		if err != nil {
			continue
		}
		p, err := r.Catalog.Get(ctx, productID)
		if err != nil {
			continue // 榜上但目录里已下架的商品直接丢弃
		}
		rec := core.NewRecommendation(p)
		rec.Score = score
		rec.Reason = ReasonTrending
		rec.Strategy = core.StrategyTrending
		rec.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
		out = append(out, rec)
	}
	return out, nil
}
