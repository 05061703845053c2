// Package track 实现行为日志与亲和度矩阵（core.EngagementStore）。
//
// 日志是事实来源，矩阵是派生索引：Record 在追加日志的同时按
// core.InteractionType.Weight() 增量累加矩阵，Rebuild 可随时从日志全量
// 重放出同一份矩阵（两者必须等价，矩阵只是避免每次重放的优化）。
package track

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rushteam/shoprec/core"
)

// Store 是内存实现的行为存储。
// 读写都会跨用户（相似度计算读 A、B 两个用户的向量），所以用一把
// RWMutex 整体保护，而不是按用户分片。
type Store struct {
	mu           sync.RWMutex
	interactions []core.Interaction
	matrix       map[string]map[string]float64 // userID -> productID -> score
}

func NewStore() *Store {
	return &Store{
		matrix: make(map[string]map[string]float64),
	}
}

func (s *Store) Name() string { return "track.memory" }

// Record 追加事件并增量更新矩阵。
// 不校验 userID/productID：记录侧零副作用，查询侧容忍未知 ID。
// 同一事件记录两次累加两次，重复浏览是真实信号，刻意不做幂等。
func (s *Store) Record(ctx context.Context, in core.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interactions = append(s.interactions, in)
	s.apply(in)
	return nil
}

func (s *Store) apply(in core.Interaction) {
	w := in.Type.Weight()
	if w == 0 {
		return
	}
	vec, ok := s.matrix[in.UserID]
	if !ok {
		vec = make(map[string]float64)
		s.matrix[in.UserID] = vec
	}
	vec[in.ProductID] += w
}

// Rebuild 丢弃矩阵并从日志全量重放。
// 正常运行不需要调用；用于校验派生等价性或从快照恢复后的补偿。
func (s *Store) Rebuild() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matrix = make(map[string]map[string]float64)
	for _, in := range s.interactions {
		s.apply(in)
	}
}

// UserVector 返回用户亲和度向量的拷贝，无行为用户返回空 map。
func (s *Store) UserVector(ctx context.Context, userID string) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vec := s.matrix[userID]
	out := make(map[string]float64, len(vec))
	for k, v := range vec {
		out[k] = v
	}
	return out, nil
}

// AllUsers 返回出现过行为的全部用户 ID（排序，保证遍历确定性）。
func (s *Store) AllUsers(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.matrix))
	for userID := range s.matrix {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out, nil
}

// UserInteractions 返回用户的全部行为，最近的在前。
func (s *Store) UserInteractions(ctx context.Context, userID string) ([]core.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Interaction, 0)
	for _, in := range s.interactions {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// InteractionsSince 返回时间戳晚于 since 的全部行为（日志顺序）。
func (s *Store) InteractionsSince(ctx context.Context, since time.Time) ([]core.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Interaction, 0)
	for _, in := range s.interactions {
		if in.Timestamp.After(since) {
			out = append(out, in)
		}
	}
	return out, nil
}

// PurchasersOf 返回购买过该商品的用户 ID（去重，排序）。
func (s *Store) PurchasersOf(ctx context.Context, productID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, in := range s.interactions {
		if in.Type == core.InteractionPurchase && in.ProductID == productID {
			seen[in.UserID] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for userID := range seen {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out, nil
}

// Len 返回日志长度（观测用）。
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.interactions)
}

var _ core.EngagementStore = (*Store)(nil)
