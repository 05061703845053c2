package shoprec

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
	"github.com/rushteam/shoprec/track"
	"github.com/rushteam/shoprec/viewed"
)

// Engine 是推荐引擎的服务入口：进程启动时显式构造一次，
// 引用传给各请求处理器。没有全局单例、没有惰性初始化；
// 行为日志不持久化，进程重启后从零开始重建。
type Engine struct {
	catalog core.Catalog
	store   core.EngagementStore
	tracker *viewed.Tracker
	hot     core.KeyValueStore
	log     *zap.Logger

	fanoutTimeout time.Duration
}

// EngineOption 配置 Engine。
type EngineOption func(*Engine)

// WithEngagementStore 覆盖行为存储，默认内存 track.Store。
func WithEngagementStore(s core.EngagementStore) EngineOption {
	return func(e *Engine) { e.store = s }
}

// WithTracker 注入最近浏览读写器；不注入时 TrackView 只写行为日志。
func WithTracker(t *viewed.Tracker) EngineOption {
	return func(e *Engine) { e.tracker = t }
}

// WithHotStore 注入趋势榜的 KV 存储（内存或 Redis）。注入后
// Trending 优先读预刷的榜单，RefreshHotList 负责刷榜。
func WithHotStore(kv core.KeyValueStore) EngineOption {
	return func(e *Engine) { e.hot = kv }
}

// WithLogger 注入日志器，默认 zap.NewNop()。
func WithLogger(log *zap.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// WithFanoutTimeout 设置聚合时单个召回源的超时，默认不限时
// （全内存计算，正常情况下微秒级）。
func WithFanoutTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.fanoutTimeout = d }
}

// NewEngine 创建推荐引擎。catalog 必填。
func NewEngine(catalog core.Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: catalog,
		store:   track.NewStore(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TrackView 记录一次商品浏览：写行为日志（更新亲和度矩阵），
// 并把快照推进最近浏览列表。最近浏览是体验功能，失败不影响返回。
func (e *Engine) TrackView(ctx context.Context, userID string, p *core.Product) error {
	if p == nil {
		return nil
	}
	if e.tracker != nil {
		e.tracker.AddProduct(ctx, *p)
	}
	return e.store.Record(ctx, core.Interaction{
		UserID:    userID,
		ProductID: p.ID,
		Type:      core.InteractionView,
		Timestamp: time.Now(),
	})
}

// TrackPurchase 记录一次购买。
func (e *Engine) TrackPurchase(ctx context.Context, userID, productID string) error {
	return e.store.Record(ctx, core.Interaction{
		UserID:    userID,
		ProductID: productID,
		Type:      core.InteractionPurchase,
		Timestamp: time.Now(),
	})
}

// TrackInteraction 记录任意类型的行为事件（加购/收藏等）。
func (e *Engine) TrackInteraction(ctx context.Context, in core.Interaction) error {
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	return e.store.Record(ctx, in)
}

// RecommendationsForUser 返回用户的个性化推荐。
//
// 链路：协同过滤 + 内容召回并发 fan-out（协同过滤槽位在前），
// 剔除排除列表，按商品 ID first-wins 去重（同分归属协同过滤），
// 降序排序后截断到 limit。
//
// 冷启动：没有任何行为的用户整体降级到趋势召回，返回趋势列表
// 而不是错误或空结果。
func (e *Engine) RecommendationsForUser(
	ctx context.Context,
	userID string,
	limit int,
	excludeIDs []string,
) ([]*core.Recommendation, error) {
	if limit <= 0 {
		limit = 6
	}
	rctx := &core.RecommendContext{
		UserID:     userID,
		Scene:      "personalized",
		Limit:      limit,
		ExcludeIDs: excludeIDs,
	}

	history, err := e.store.UserInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		e.log.Debug("cold start, falling back to trending", zap.String("user_id", userID))
		trending := &recall.Trending{Catalog: e.catalog, Store: e.store, TopK: limit}
		return trending.Recall(ctx, rctx)
	}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.Fanout{
				Sources: []recall.Source{
					&recall.Collaborative{Catalog: e.catalog, Store: e.store, TopK: limit},
					&recall.Content{Catalog: e.catalog, Store: e.store, TopK: limit},
				},
				Timeout: e.fanoutTimeout,
			},
			&filter.FilterNode{Filters: []filter.Filter{filter.NewExcludeFilter()}},
			&rerank.Dedup{},
			&rerank.ScoreSort{},
			&rerank.TopNNode{N: limit},
		},
	}
	return p.Run(ctx, rctx, nil)
}

// SimilarProducts 返回与锚点商品属性相近的商品（详情页"更多同款"）。
func (e *Engine) SimilarProducts(ctx context.Context, productID string, limit int) ([]*core.Recommendation, error) {
	src := &recall.Similar{Catalog: e.catalog, ProductID: productID, TopK: limit}
	return src.Recall(ctx, &core.RecommendContext{Scene: "similar", ProductID: productID, Limit: limit})
}

// RefreshHotList 用当前窗口的趋势分重刷热榜。需要先通过
// WithHotStore 注入存储；未注入时是 no-op。刷新节奏由调用方
// 掌握，通常挂在定时任务上。
func (e *Engine) RefreshHotList(ctx context.Context) error {
	if e.hot == nil {
		return nil
	}
	src := &recall.Trending{Catalog: e.catalog, Store: e.store}
	return src.Snapshot(ctx, e.hot, recall.DefaultHotKey)
}

// Trending 返回尾随 24 小时窗口内的趋势商品。窗口内无行为时返回空列表。
// 注入了热榜存储时优先读预刷的榜单，榜单为空或读取失败再回退到
// 窗口实时计算。
func (e *Engine) Trending(ctx context.Context, limit int) ([]*core.Recommendation, error) {
	rctx := &core.RecommendContext{Scene: "trending", Limit: limit}
	if e.hot != nil {
		hot := &recall.Hot{Catalog: e.catalog, Store: e.hot, TopK: limit}
		recs, err := hot.Recall(ctx, rctx)
		if err != nil {
			e.log.Warn("hot list read failed, falling back to window compute", zap.Error(err))
		} else if len(recs) > 0 {
			return recs, nil
		}
	}
	src := &recall.Trending{Catalog: e.catalog, Store: e.store, TopK: limit}
	return src.Recall(ctx, rctx)
}

// Complementary 返回与锚点商品共同购买的商品（"Frequently bought together"）。
func (e *Engine) Complementary(ctx context.Context, productID string, limit int) ([]*core.Recommendation, error) {
	src := &recall.Complementary{Catalog: e.catalog, Store: e.store, ProductID: productID, TopK: limit}
	return src.Recall(ctx, &core.RecommendContext{Scene: "complementary", ProductID: productID, Limit: limit})
}

// RecentlyViewed 返回最近浏览的商品快照，最近的在前。
// 未注入 tracker 或存储不可用时返回空列表。
func (e *Engine) RecentlyViewed(ctx context.Context) []core.Product {
	if e.tracker == nil {
		return []core.Product{}
	}
	return e.tracker.Products(ctx)
}

// RecentlyViewedFor 从行为日志取某用户最近浏览的商品（最近在前，
// 按商品去重，封顶 limit）。与 RecentlyViewed 的区别：这里查的是
// 服务端日志，不依赖会话级 tracker。
func (e *Engine) RecentlyViewedFor(ctx context.Context, userID string, limit int) ([]*core.Product, error) {
	if limit <= 0 {
		limit = viewed.DefaultMax
	}
	history, err := e.store.UserInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	out := make([]*core.Product, 0, limit)
	for _, in := range history {
		if in.Type != core.InteractionView {
			continue
		}
		if _, ok := seen[in.ProductID]; ok {
			continue
		}
		seen[in.ProductID] = struct{}{}
		p, err := e.catalog.Get(ctx, in.ProductID)
		if err != nil {
			continue
		}
		out = append(out, p)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Preferences 返回从行为历史提炼的偏好画像（画像展示/调试用）。
// 无可解析历史时返回 nil。
func (e *Engine) Preferences(ctx context.Context, userID string) (*recall.Preferences, error) {
	history, err := e.store.UserInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}
	products := make([]*core.Product, 0, len(history))
	for _, in := range history {
		if p, err := e.catalog.Get(ctx, in.ProductID); err == nil {
			products = append(products, p)
		}
	}
	return recall.ExtractPreferences(products), nil
}
