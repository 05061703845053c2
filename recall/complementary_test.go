package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/track"
)

func TestComplementary_Recall(t *testing.T) {
	ctx := context.Background()
	cat := catalog.NewMemory(
		&core.Product{ID: "door", Name: "Barn Door", Price: 900},
		&core.Product{ID: "track", Name: "Track Kit", Price: 200},
		&core.Product{ID: "handle", Name: "Door Handle", Price: 50},
		&core.Product{ID: "mirror", Name: "Wall Mirror", Price: 300},
	)
	store := track.NewStore()
	now := time.Now()

	// u1、u2 都买了 door；u1 还买了 track 和 handle，u2 还买了 track
	for _, in := range []core.Interaction{
		{UserID: "u1", ProductID: "door", Type: core.InteractionPurchase, Timestamp: now},
		{UserID: "u1", ProductID: "track", Type: core.InteractionPurchase, Timestamp: now},
		{UserID: "u1", ProductID: "handle", Type: core.InteractionPurchase, Timestamp: now},
		{UserID: "u2", ProductID: "door", Type: core.InteractionPurchase, Timestamp: now},
		{UserID: "u2", ProductID: "track", Type: core.InteractionPurchase, Timestamp: now},
		// u3 只浏览过 door，不算购买者
		{UserID: "u3", ProductID: "door", Type: core.InteractionView, Timestamp: now},
		{UserID: "u3", ProductID: "mirror", Type: core.InteractionPurchase, Timestamp: now},
	} {
		_ = store.Record(ctx, in)
	}

	src := &Complementary{Catalog: cat, Store: store}
	got, err := src.Recall(ctx, &core.RecommendContext{ProductID: "door"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(got), got)
	}
	if got[0].Product.ID != "track" || got[0].Score != 2 {
		t.Errorf("top = %s score %v, want track with co-purchase count 2", got[0].Product.ID, got[0].Score)
	}
	if got[1].Product.ID != "handle" || got[1].Score != 1 {
		t.Errorf("second = %s score %v, want handle with count 1", got[1].Product.ID, got[1].Score)
	}
	for _, rec := range got {
		if rec.Product.ID == "door" {
			t.Errorf("anchor product leaked into results")
		}
		if rec.Product.ID == "mirror" {
			t.Errorf("non-buyer's purchase leaked into results")
		}
		if rec.Reason != ReasonComplementary {
			t.Errorf("reason = %q", rec.Reason)
		}
		if rec.Strategy != core.StrategyComplementary {
			t.Errorf("strategy = %s", rec.Strategy)
		}
	}
}

func TestComplementary_AnchorFallsBackToField(t *testing.T) {
	ctx := context.Background()
	cat := catalog.NewMemory(
		&core.Product{ID: "door", Name: "Barn Door"},
		&core.Product{ID: "track", Name: "Track Kit"},
	)
	store := track.NewStore()
	now := time.Now()
	_ = store.Record(ctx, core.Interaction{UserID: "u1", ProductID: "door", Type: core.InteractionPurchase, Timestamp: now})
	_ = store.Record(ctx, core.Interaction{UserID: "u1", ProductID: "track", Type: core.InteractionPurchase, Timestamp: now})

	src := &Complementary{Catalog: cat, Store: store, ProductID: "door"}
	got, err := src.Recall(ctx, &core.RecommendContext{})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(got) != 1 || got[0].Product.ID != "track" {
		t.Errorf("got %v, want [track]", got)
	}
}

func TestComplementary_NoBuyers(t *testing.T) {
	ctx := context.Background()
	cat := catalog.NewMemory(&core.Product{ID: "door", Name: "Barn Door"})
	store := track.NewStore()

	src := &Complementary{Catalog: cat, Store: store}
	got, err := src.Recall(ctx, &core.RecommendContext{ProductID: "door"})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestComplementary_NoAnchor(t *testing.T) {
	src := &Complementary{Catalog: catalog.NewMemory(), Store: track.NewStore()}
	got, err := src.Recall(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if got != nil {
		t.Errorf("missing anchor should return nil, got %v", got)
	}
}
