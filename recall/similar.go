package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// ReasonSimilar 是属性相似结果的展示话术。
const ReasonSimilar = "Similar style and category"

// Similar 是属性相似召回源：不看行为，只比商品字段。
// 商品详情页 "更多同款" 模块用，锚点无浏览数据时也能工作。
//
// 打分：同品类 +0.5，同风格 +0.3，价格贴合度 ×0.2
// （贴合度 = max(0, 1 − |Δprice|/锚点价格)，锚点价格为 0 时不计价格项）。
type Similar struct {
	Catalog core.Catalog

	// ProductID 是锚点商品，rctx.ProductID 为空时生效
	ProductID string

	// TopK 最终返回的商品数，<= 0 时用默认值
	TopK int
}

func (r *Similar) Name() string {
	return "recall.similar" // i2i（属性版）
}

func (r *Similar) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Recommendation, error) {
	if r.Catalog == nil {
		return nil, nil
	}

	anchorID := r.ProductID
	if rctx != nil && rctx.ProductID != "" {
		anchorID = rctx.ProductID
	}
	if anchorID == "" {
		return nil, nil
	}

	anchor, err := r.Catalog.Get(ctx, anchorID)
	if err != nil {
		return nil, nil // 未知锚点返回空，不作为错误
	}

	all, err := r.Catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Recommendation, 0)
	for _, p := range all {
		if p.ID == anchor.ID {
			continue
		}

		var score float64
		if p.Category == anchor.Category {
			score += 0.5
		}
		if p.Style != "" && p.Style == anchor.Style {
			score += 0.3
		}
		if anchor.Price > 0 {
			diff := p.Price - anchor.Price
			if diff < 0 {
				diff = -diff
			}
			if closeness := 1 - diff/anchor.Price; closeness > 0 {
				score += closeness * 0.2
			}
		}
		if score <= 0 {
			continue
		}

		rec := core.NewRecommendation(p)
		rec.Score = score
		rec.Reason = ReasonSimilar
		rec.Strategy = core.StrategyContentBased
		rec.PutLabel("recall_source", utils.Label{Value: "similar", Source: "recall"})
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if topK := limitOr(rctx, r.TopK, 4); len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}
