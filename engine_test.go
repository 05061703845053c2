package shoprec

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/store"
	"github.com/rushteam/shoprec/viewed"
)

func testCatalog() *catalog.Memory {
	return catalog.NewMemory(
		&core.Product{ID: "barn-1", Name: "Modern Pine Barn Door", Category: "Barn Doors", Price: 900, Style: "modern", Tags: []string{"sliding"}},
		&core.Product{ID: "barn-2", Name: "Rustic Oak Barn Door", Category: "Barn Doors", Price: 950, Style: "rustic", Tags: []string{"sliding"}},
		&core.Product{ID: "hw-1", Name: "Matte Black Track Kit", Category: "Hardware", Price: 200, Style: "modern"},
		&core.Product{ID: "mirror-1", Name: "Round Wall Mirror", Category: "Mirrors", Price: 300},
	)
}

func TestEngine_ColdStartFallsBackToTrending(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(testCatalog())

	// 其他用户的行为撑起趋势榜
	_ = engine.TrackPurchase(ctx, "u1", "barn-1")
	_ = engine.TrackPurchase(ctx, "u2", "barn-1")
	barn2, _ := engine.catalog.Get(ctx, "barn-2")
	_ = engine.TrackView(ctx, "u1", barn2)

	got, err := engine.RecommendationsForUser(ctx, "newcomer", 6, nil)
	if err != nil {
		t.Fatalf("RecommendationsForUser() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("cold start should fall back to trending, got nothing")
	}
	for _, rec := range got {
		if rec.Strategy != core.StrategyTrending {
			t.Errorf("cold-start result strategy = %s, want trending", rec.Strategy)
		}
	}
	if got[0].Product.ID != "barn-1" {
		t.Errorf("top trending = %s, want barn-1 (two purchases)", got[0].Product.ID)
	}
}

func TestEngine_PersonalizedBlendsStrategies(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(testCatalog())

	// nb 和 target 都买了 barn-1；nb 还买了 hw-1 → 协同过滤推 hw-1
	_ = engine.TrackPurchase(ctx, "nb", "barn-1")
	_ = engine.TrackPurchase(ctx, "nb", "hw-1")
	_ = engine.TrackPurchase(ctx, "target", "barn-1")

	got, err := engine.RecommendationsForUser(ctx, "target", 6, nil)
	if err != nil {
		t.Fatalf("RecommendationsForUser() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("got nothing")
	}

	byID := make(map[string]*core.Recommendation, len(got))
	for _, rec := range got {
		if _, dup := byID[rec.Product.ID]; dup {
			t.Errorf("duplicate product %s in results", rec.Product.ID)
		}
		byID[rec.Product.ID] = rec
		if rec.Product.ID == "barn-1" {
			t.Errorf("already-purchased barn-1 leaked into results")
		}
	}

	// hw-1 同时命中协同过滤和内容召回，归属协同过滤
	hw, ok := byID["hw-1"]
	if !ok {
		t.Fatal("hw-1 missing from results")
	}
	if hw.Strategy != core.StrategyCollaborative {
		t.Errorf("hw-1 strategy = %s, want collaborative (first-wins)", hw.Strategy)
	}

	// barn-2 同品类，应由内容召回带出
	barn2, ok := byID["barn-2"]
	if !ok {
		t.Fatal("barn-2 missing from results")
	}
	if barn2.Strategy != core.StrategyContentBased {
		t.Errorf("barn-2 strategy = %s, want content_based", barn2.Strategy)
	}

	// 降序排列
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("results not sorted descending at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestEngine_ExcludeIDs(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(testCatalog())

	_ = engine.TrackPurchase(ctx, "nb", "barn-1")
	_ = engine.TrackPurchase(ctx, "nb", "hw-1")
	_ = engine.TrackPurchase(ctx, "target", "barn-1")

	got, err := engine.RecommendationsForUser(ctx, "target", 6, []string{"hw-1"})
	if err != nil {
		t.Fatalf("RecommendationsForUser() error = %v", err)
	}
	for _, rec := range got {
		if rec.Product.ID == "hw-1" {
			t.Errorf("excluded hw-1 leaked into results")
		}
	}
}

func TestEngine_LimitTruncates(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(testCatalog())

	_ = engine.TrackPurchase(ctx, "nb", "barn-1")
	_ = engine.TrackPurchase(ctx, "nb", "hw-1")
	_ = engine.TrackPurchase(ctx, "nb", "mirror-1")
	_ = engine.TrackPurchase(ctx, "target", "barn-1")

	got, err := engine.RecommendationsForUser(ctx, "target", 1, nil)
	if err != nil {
		t.Fatalf("RecommendationsForUser() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestEngine_TrackViewFeedsTracker(t *testing.T) {
	ctx := context.Background()
	tracker := viewed.NewTracker(store.NewMemoryStore())
	engine := NewEngine(testCatalog(), WithTracker(tracker))

	p, _ := engine.catalog.Get(ctx, "barn-1")
	if err := engine.TrackView(ctx, "u1", p); err != nil {
		t.Fatalf("TrackView() error = %v", err)
	}

	recent := engine.RecentlyViewed(ctx)
	if len(recent) != 1 || recent[0].ID != "barn-1" {
		t.Errorf("RecentlyViewed() = %v, want [barn-1]", recent)
	}

	// 行为日志同时写入
	history, err := engine.store.UserInteractions(ctx, "u1")
	if err != nil {
		t.Fatalf("UserInteractions() error = %v", err)
	}
	if len(history) != 1 || history[0].Type != core.InteractionView {
		t.Errorf("history = %v, want one view event", history)
	}
}

func TestEngine_RecentlyViewedWithoutTracker(t *testing.T) {
	engine := NewEngine(testCatalog())
	got := engine.RecentlyViewed(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil list", got)
	}
}

func TestEngine_RecentlyViewedFor(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(testCatalog())

	base := time.Now()
	for i, id := range []string{"barn-1", "barn-2", "barn-1", "hw-1"} {
		_ = engine.TrackInteraction(ctx, core.Interaction{
			UserID: "u1", ProductID: id, Type: core.InteractionView,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	// 购买不进最近浏览
	_ = engine.TrackInteraction(ctx, core.Interaction{
		UserID: "u1", ProductID: "mirror-1", Type: core.InteractionPurchase,
		Timestamp: base.Add(time.Hour),
	})

	got, err := engine.RecentlyViewedFor(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("RecentlyViewedFor() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (deduped views only)", len(got))
	}
	// 最近在前，重复浏览的 barn-1 取最近一次的位置
	if got[0].ID != "hw-1" || got[1].ID != "barn-1" || got[2].ID != "barn-2" {
		t.Errorf("order = [%s %s %s], want [hw-1 barn-1 barn-2]", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestEngine_SimilarProducts(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(testCatalog())

	got, err := engine.SimilarProducts(ctx, "barn-1", 4)
	if err != nil {
		t.Fatalf("SimilarProducts() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("got nothing")
	}
	// barn-2 同品类且价格接近，应排第一
	if got[0].Product.ID != "barn-2" {
		t.Errorf("top = %s, want barn-2", got[0].Product.ID)
	}
}

func TestEngine_Complementary(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(testCatalog())

	_ = engine.TrackPurchase(ctx, "u1", "barn-1")
	_ = engine.TrackPurchase(ctx, "u1", "hw-1")
	_ = engine.TrackPurchase(ctx, "u2", "barn-1")

	got, err := engine.Complementary(ctx, "barn-1", 4)
	if err != nil {
		t.Fatalf("Complementary() error = %v", err)
	}
	if len(got) != 1 || got[0].Product.ID != "hw-1" {
		t.Errorf("got %v, want [hw-1]", got)
	}
}

func TestEngine_Preferences(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(testCatalog())

	_ = engine.TrackPurchase(ctx, "u1", "barn-1")
	_ = engine.TrackPurchase(ctx, "u1", "barn-2")

	prefs, err := engine.Preferences(ctx, "u1")
	if err != nil {
		t.Fatalf("Preferences() error = %v", err)
	}
	if prefs == nil {
		t.Fatal("Preferences() = nil")
	}
	if prefs.Categories["Barn Doors"] != 2 {
		t.Errorf("categories = %v", prefs.Categories)
	}

	// 无历史用户返回 nil 画像
	empty, err := engine.Preferences(ctx, "nobody")
	if err != nil {
		t.Fatalf("Preferences(nobody) error = %v", err)
	}
	if empty != nil {
		t.Errorf("got %v, want nil", empty)
	}
}

func TestEngine_HotListServesTrending(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()
	engine := NewEngine(testCatalog(), WithHotStore(kv))

	_ = engine.TrackPurchase(ctx, "u1", "barn-1")
	_ = engine.TrackPurchase(ctx, "u2", "barn-1")
	barn2, _ := engine.catalog.Get(ctx, "barn-2")
	_ = engine.TrackView(ctx, "u1", barn2)

	// 刷榜前榜单为空，回退到窗口实时计算
	got, err := engine.Trending(ctx, 6)
	if err != nil {
		t.Fatalf("Trending() before refresh error = %v", err)
	}
	if len(got) != 2 || got[0].Product.ID != "barn-1" {
		t.Fatalf("fallback result = %v, want barn-1 first", got)
	}

	if err := engine.RefreshHotList(ctx); err != nil {
		t.Fatalf("RefreshHotList() error = %v", err)
	}
	if members, _ := kv.ZRange(ctx, recall.DefaultHotKey, 0, -1); len(members) != 2 {
		t.Fatalf("hot list members = %v, want 2", members)
	}

	got, err = engine.Trending(ctx, 6)
	if err != nil {
		t.Fatalf("Trending() after refresh error = %v", err)
	}
	if len(got) != 2 || got[0].Product.ID != "barn-1" || got[0].Score != 10 {
		t.Errorf("hot list result = %v, want barn-1 score 10 first", got)
	}
}

func TestEngine_RefreshHotListWithoutStore(t *testing.T) {
	engine := NewEngine(testCatalog())
	if err := engine.RefreshHotList(context.Background()); err != nil {
		t.Errorf("RefreshHotList() without hot store error = %v, want nil", err)
	}
}
