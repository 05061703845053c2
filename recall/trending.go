package recall

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// ReasonTrending 是趋势召回结果的展示话术。
const ReasonTrending = "Trending now"

// Trending 是时间窗口趋势召回源，同时充当冷启动兜底：
// 无任何行为的用户由聚合器整体降级到这里。
//
// 打分：窗口内 购买数×5 + 浏览数。加购/收藏不计入趋势，
// 窗口内只有加购/收藏的商品不进榜（不以 0 分列出）。
// 窗口默认尾随 24 小时。窗口内无行为时返回空列表，不是错误。
type Trending struct {
	Catalog core.Catalog
	Store   core.EngagementStore

	// TopK 最终返回的商品数，<= 0 时用默认值
	TopK int

	// Window 统计窗口，<= 0 时取 24h
	Window time.Duration

	// Now 可注入时钟，便于测试；为 nil 时用 time.Now
	Now func() time.Time
}

func (r *Trending) Name() string {
	return "recall.trending"
}

// windowScores 回放窗口内的行为，返回 map[productID]趋势分。
func (r *Trending) windowScores(ctx context.Context) (map[string]float64, error) {
	window := r.Window
	if window <= 0 {
		window = 24 * time.Hour
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	recent, err := r.Store.InteractionsSince(ctx, now().Add(-window))
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64)
	for _, in := range recent {
		switch in.Type {
		case core.InteractionView:
			scores[in.ProductID]++
		case core.InteractionPurchase:
			scores[in.ProductID] += 5
		}
	}
	return scores, nil
}

func (r *Trending) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Recommendation, error) {
	if r.Store == nil || r.Catalog == nil {
		return nil, nil
	}

	scores, err := r.windowScores(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Recommendation, 0, len(scores))
	for productID, score := range scores {
		p, err := r.Catalog.Get(ctx, productID)
		if err != nil {
			continue
		}
		rec := core.NewRecommendation(p)
		rec.Score = score
		rec.Reason = ReasonTrending
		rec.Strategy = core.StrategyTrending
		rec.PutLabel("recall_source", utils.Label{Value: "trending", Source: "recall"})
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Product.ID < out[j].Product.ID // 同分时按 ID 保证确定性
		}
		return out[i].Score > out[j].Score
	})
	if topK := limitOr(rctx, r.TopK, 6); len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

// Snapshot 把当前窗口的趋势分整榜刷入 KV 存储的有序集合，
// 供 recall.Hot 跨进程读取。先删旧榜再重写：掉出窗口的商品
// 不能留在榜上。刷新节奏由调用方掌握（定时任务或写后触发）。
func (r *Trending) Snapshot(ctx context.Context, kv core.KeyValueStore, key string) error {
	if r.Store == nil || kv == nil {
		return nil
	}
	if key == "" {
		key = DefaultHotKey
	}

	scores, err := r.windowScores(ctx)
	if err != nil {
		return err
	}

	if err := kv.Delete(ctx, key); err != nil {
		return err
	}
	for productID, score := range scores {
		if err := kv.ZAdd(ctx, key, score, productID); err != nil {
			return err
		}
	}
	return nil
}
