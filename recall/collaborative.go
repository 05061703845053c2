package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// ReasonCollaborative 是协同过滤结果的展示话术。
const ReasonCollaborative = "Customers who liked your favorites also liked this"

// Collaborative 是基于用户的协同过滤召回源（User-CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的商品"
//
// 算法流程：
//  1. 用户 → 亲和度向量（浏览/加购/收藏/购买按权重累加）
//  2. 余弦相似度找 Top 10 相似用户（固定阈值 0.1）
//  3. 邻居向量里目标用户没碰过的商品，按 邻居分数 × 相似度 累加
//  4. 降序截断
//
// 冷启动（目标用户无任何行为）返回空，由上层聚合器降级到趋势召回。
type Collaborative struct {
	Catalog core.Catalog
	Store   core.EngagementStore

	// TopK 最终返回的商品数，<= 0 时用默认值
	TopK int
}

func (r *Collaborative) Name() string {
	return "recall.collaborative" // u2i (User-to-Item)
}

func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Recommendation, error) {
	if r.Store == nil || r.Catalog == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	target, err := r.Store.UserVector(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(target) == 0 {
		return nil, nil
	}

	sim := &Similarity{Store: r.Store}
	neighbors, err := sim.SimilarUsers(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	// score[productID] = Σ(邻居分数 × 相似度)，多个邻居贡献同一商品时求和
	scores := make(map[string]float64)
	for _, nb := range neighbors {
		vec, err := r.Store.UserVector(ctx, nb.UserID)
		if err != nil {
			continue
		}
		for productID, score := range vec {
			if _, ok := target[productID]; ok {
				continue // 跳过目标用户已交互的商品
			}
			scores[productID] += score * nb.Similarity
		}
	}

	out := make([]*core.Recommendation, 0, len(scores))
	for productID, score := range scores {
		p, err := r.Catalog.Get(ctx, productID)
		if err != nil {
			continue // 目录里没有的 ID 直接丢弃
		}
		rec := core.NewRecommendation(p)
		rec.Score = score
		rec.Reason = ReasonCollaborative
		rec.Strategy = core.StrategyCollaborative
		rec.PutLabel("recall_source", utils.Label{Value: "u2i", Source: "recall"})
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if topK := limitOr(rctx, r.TopK, 6); len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}
