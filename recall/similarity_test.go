package recall

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/track"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    map[string]float64
		b    map[string]float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    map[string]float64{"p1": 1, "p2": 2},
			b:    map[string]float64{"p1": 1, "p2": 2},
			want: 1,
		},
		{
			name: "no overlap",
			a:    map[string]float64{"p1": 1},
			b:    map[string]float64{"p2": 1},
			want: 0,
		},
		{
			name: "empty a",
			a:    map[string]float64{},
			b:    map[string]float64{"p1": 1},
			want: 0,
		},
		{
			name: "both empty",
			a:    map[string]float64{},
			b:    map[string]float64{},
			want: 0,
		},
		{
			name: "partial overlap",
			a:    map[string]float64{"p1": 3, "p2": 4},
			b:    map[string]float64{"p1": 3},
			want: 9.0 / (5.0 * 3.0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
			// 对称性
			if rev := Cosine(tt.b, tt.a); math.Abs(got-rev) > 1e-9 {
				t.Errorf("Cosine not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestSimilarity_Between(t *testing.T) {
	ctx := context.Background()
	store := track.NewStore()
	now := time.Now()

	// u1 和 u2 都买了 p1，u2 还浏览了 p2
	_ = store.Record(ctx, core.Interaction{UserID: "u1", ProductID: "p1", Type: core.InteractionPurchase, Timestamp: now})
	_ = store.Record(ctx, core.Interaction{UserID: "u2", ProductID: "p1", Type: core.InteractionPurchase, Timestamp: now})
	_ = store.Record(ctx, core.Interaction{UserID: "u2", ProductID: "p2", Type: core.InteractionView, Timestamp: now})

	s := &Similarity{Store: store}

	got, err := s.Between(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("Between() error = %v", err)
	}
	// dot = 25, |u1| = 5, |u2| = sqrt(26)
	want := 25.0 / (5.0 * math.Sqrt(26))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Between() = %v, want %v", got, want)
	}

	rev, _ := s.Between(ctx, "u2", "u1")
	if math.Abs(got-rev) > 1e-9 {
		t.Errorf("Between not symmetric: %v vs %v", got, rev)
	}

	// 无行为用户相似度为 0
	zero, err := s.Between(ctx, "u1", "ghost")
	if err != nil {
		t.Fatalf("Between(ghost) error = %v", err)
	}
	if zero != 0 {
		t.Errorf("Between(u1, ghost) = %v, want 0", zero)
	}
}

func TestSimilarity_SimilarUsers(t *testing.T) {
	ctx := context.Background()
	store := track.NewStore()
	now := time.Now()

	// 目标用户买 p1
	_ = store.Record(ctx, core.Interaction{UserID: "target", ProductID: "p1", Type: core.InteractionPurchase, Timestamp: now})
	// twin 行为完全一致 → 相似度 1
	_ = store.Record(ctx, core.Interaction{UserID: "twin", ProductID: "p1", Type: core.InteractionPurchase, Timestamp: now})
	// partial 买了 p1 但还大量交互别的商品 → 相似度较低但过阈值
	_ = store.Record(ctx, core.Interaction{UserID: "partial", ProductID: "p1", Type: core.InteractionPurchase, Timestamp: now})
	_ = store.Record(ctx, core.Interaction{UserID: "partial", ProductID: "p2", Type: core.InteractionPurchase, Timestamp: now})
	// stranger 没有任何重叠 → 被阈值过滤
	_ = store.Record(ctx, core.Interaction{UserID: "stranger", ProductID: "p9", Type: core.InteractionPurchase, Timestamp: now})

	s := &Similarity{Store: store}
	got, err := s.SimilarUsers(ctx, "target")
	if err != nil {
		t.Fatalf("SimilarUsers() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (twin, partial): %v", len(got), got)
	}
	if got[0].UserID != "twin" {
		t.Errorf("top neighbor = %s, want twin", got[0].UserID)
	}
	if got[1].UserID != "partial" {
		t.Errorf("second neighbor = %s, want partial", got[1].UserID)
	}
	if got[0].Similarity < got[1].Similarity {
		t.Errorf("not sorted descending: %v", got)
	}
	for _, n := range got {
		if n.UserID == "target" {
			t.Errorf("target user appears in its own neighbors")
		}
	}
}

func TestSimilarity_SimilarUsersCap(t *testing.T) {
	ctx := context.Background()
	store := track.NewStore()
	now := time.Now()

	_ = store.Record(ctx, core.Interaction{UserID: "target", ProductID: "p1", Type: core.InteractionPurchase, Timestamp: now})
	for i := 0; i < 15; i++ {
		_ = store.Record(ctx, core.Interaction{
			UserID: fmt.Sprintf("u%02d", i), ProductID: "p1", Type: core.InteractionPurchase, Timestamp: now,
		})
	}

	s := &Similarity{Store: store}
	got, err := s.SimilarUsers(ctx, "target")
	if err != nil {
		t.Fatalf("SimilarUsers() error = %v", err)
	}
	if len(got) != 10 {
		t.Errorf("len = %d, want cap of 10", len(got))
	}
}

func TestSimilarity_SimilarUsersColdStart(t *testing.T) {
	ctx := context.Background()
	store := track.NewStore()
	_ = store.Record(ctx, core.Interaction{UserID: "u1", ProductID: "p1", Type: core.InteractionView, Timestamp: time.Now()})

	s := &Similarity{Store: store}
	got, err := s.SimilarUsers(ctx, "nobody")
	if err != nil {
		t.Fatalf("SimilarUsers() error = %v", err)
	}
	if got != nil {
		t.Errorf("cold-start user should have nil neighbors, got %v", got)
	}
}
