// Package viewed 实现最近浏览列表：有界、保序、跨进程存活。
//
// 列表存的是浏览时刻的商品快照（不是目录的活引用），最近的在前，
// 按商品 ID 去重，封顶 10 条。后端是 core.Store（内存桩或 Redis），
// 构造时选择，逻辑里不做环境探测。
//
// 这是体验功能而不是正确性关键路径：存储读写失败记日志后按空列表
// 降级，绝不向调用方抛错。
package viewed

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/rushteam/shoprec/core"
)

const (
	// DefaultKey 是存储里的默认 key
	DefaultKey = "viewed:recent"

	// DefaultMax 是列表长度上限
	DefaultMax = 10
)

// Tracker 是最近浏览列表的读写器。
type Tracker struct {
	store core.Store
	key   string
	max   int
	log   *zap.Logger
}

// Option 配置 Tracker。
type Option func(*Tracker)

// WithKey 覆盖存储 key（多会话场景可按 session 拼 key）。
func WithKey(key string) Option {
	return func(t *Tracker) { t.key = key }
}

// WithMax 覆盖长度上限。
func WithMax(max int) Option {
	return func(t *Tracker) { t.max = max }
}

// WithLogger 注入日志器，默认 zap.NewNop()。
func WithLogger(log *zap.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// NewTracker 创建一个最近浏览读写器。store 决定存活范围：
// store.MemoryStore 只活在进程内，store.RedisStore 跨进程存活。
func NewTracker(s core.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: s,
		key:   DefaultKey,
		max:   DefaultMax,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddProduct 把商品快照压到队首：已存在的同 ID 条目先移除，再整体
// 截断到上限。读改写一次完成，失败只记日志。
func (t *Tracker) AddProduct(ctx context.Context, p core.Product) {
	if p.ID == "" {
		return
	}

	current := t.Products(ctx)
	updated := make([]core.Product, 0, len(current)+1)
	updated = append(updated, p)
	for _, old := range current {
		if old.ID == p.ID {
			continue
		}
		updated = append(updated, old)
	}
	if len(updated) > t.max {
		updated = updated[:t.max]
	}

	data, err := json.Marshal(updated)
	if err != nil {
		t.log.Warn("viewed: marshal failed", zap.Error(err))
		return
	}
	if err := t.store.Set(ctx, t.key, data); err != nil {
		t.log.Warn("viewed: save failed", zap.String("key", t.key), zap.Error(err))
	}
}

// Products 返回最近浏览列表，最近的在前。
// key 不存在、存储不可用、数据损坏都降级为空列表。
func (t *Tracker) Products(ctx context.Context) []core.Product {
	data, err := t.store.Get(ctx, t.key)
	if err != nil {
		if !core.IsStoreNotFound(err) {
			t.log.Warn("viewed: load failed", zap.String("key", t.key), zap.Error(err))
		}
		return []core.Product{}
	}

	var products []core.Product
	if err := json.Unmarshal(data, &products); err != nil {
		t.log.Warn("viewed: corrupted payload", zap.String("key", t.key), zap.Error(err))
		return []core.Product{}
	}
	return products
}

// Clear 清空最近浏览列表。
func (t *Tracker) Clear(ctx context.Context) {
	if err := t.store.Delete(ctx, t.key); err != nil {
		t.log.Warn("viewed: clear failed", zap.String("key", t.key), zap.Error(err))
	}
}
