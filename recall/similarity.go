package recall

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/shoprec/core"
)

// 相似用户的固定策略：阈值与上限不按请求调节，保证结果集有界且确定。
const (
	similarUserThreshold = 0.1
	similarUserLimit     = 10
)

// UserSimilarity 是一个 (用户, 相似度) 对。
type UserSimilarity struct {
	UserID     string
	Similarity float64
}

// Similarity 基于亲和度矩阵计算用户间余弦相似度。
type Similarity struct {
	Store core.EngagementStore
}

// Between 返回两个用户亲和度向量的余弦相似度。
// 向量定义在两人交互过的商品并集上，缺失项视为 0；
// 任一向量模长为 0 时返回 0。对称：Between(a,b) == Between(b,a)。
func (s *Similarity) Between(ctx context.Context, userA, userB string) (float64, error) {
	vecA, err := s.Store.UserVector(ctx, userA)
	if err != nil {
		return 0, err
	}
	vecB, err := s.Store.UserVector(ctx, userB)
	if err != nil {
		return 0, err
	}
	return Cosine(vecA, vecB), nil
}

// SimilarUsers 返回与目标用户相似度 > 0.1 的其他用户，
// 降序排列并截断到前 10。阈值与上限是固定策略，不随请求变化。
func (s *Similarity) SimilarUsers(ctx context.Context, userID string) ([]UserSimilarity, error) {
	target, err := s.Store.UserVector(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(target) == 0 {
		return nil, nil
	}

	users, err := s.Store.AllUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserSimilarity, 0)
	for _, other := range users {
		if other == userID {
			continue
		}
		vec, err := s.Store.UserVector(ctx, other)
		if err != nil {
			continue
		}
		if sim := Cosine(target, vec); sim > similarUserThreshold {
			out = append(out, UserSimilarity{UserID: other, Similarity: sim})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > similarUserLimit {
		out = out[:similarUserLimit]
	}
	return out, nil
}

// Cosine 计算两个稀疏向量的余弦相似度，key 取并集，缺失项为 0。
// 任一向量模长为 0 时返回 0。
func Cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for k, va := range a {
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
		normA += va * va
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
