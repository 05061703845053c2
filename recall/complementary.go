package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// ReasonComplementary 是购物篮关联结果的展示话术。
const ReasonComplementary = "Frequently bought together"

// Complementary 是购物篮关联召回源（"Frequently bought together"）。
//
// 算法流程：
//  1. 找出购买过锚点商品的全部用户
//  2. 统计这些用户购买过的其他商品的共现次数
//  3. 按次数降序截断；无人购买过锚点时返回空列表
//
// 锚点取 rctx.ProductID，为空时回落到字段 ProductID。
type Complementary struct {
	Catalog core.Catalog
	Store   core.EngagementStore

	// ProductID 是锚点商品，rctx.ProductID 为空时生效
	ProductID string

	// TopK 最终返回的商品数，<= 0 时用默认值
	TopK int
}

func (r *Complementary) Name() string {
	return "recall.complementary" // i2i（共购版）
}

func (r *Complementary) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Recommendation, error) {
	if r.Store == nil || r.Catalog == nil {
		return nil, nil
	}

	anchor := r.ProductID
	if rctx != nil && rctx.ProductID != "" {
		anchor = rctx.ProductID
	}
	if anchor == "" {
		return nil, nil
	}

	buyers, err := r.Store.PurchasersOf(ctx, anchor)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, userID := range buyers {
		history, err := r.Store.UserInteractions(ctx, userID)
		if err != nil {
			continue
		}
		for _, in := range history {
			if in.Type != core.InteractionPurchase || in.ProductID == anchor {
				continue
			}
			counts[in.ProductID]++
		}
	}

	out := make([]*core.Recommendation, 0, len(counts))
	for productID, count := range counts {
		p, err := r.Catalog.Get(ctx, productID)
		if err != nil {
			continue
		}
		rec := core.NewRecommendation(p)
		rec.Score = float64(count)
		rec.Reason = ReasonComplementary
		rec.Strategy = core.StrategyComplementary
		rec.PutLabel("recall_source", utils.Label{Value: "co_purchase", Source: "recall"})
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Product.ID < out[j].Product.ID
		}
		return out[i].Score > out[j].Score
	})
	if topK := limitOr(rctx, r.TopK, 4); len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}
