// Package catalog 提供 core.Catalog 的内存实现。
package catalog

import (
	"context"
	"sync"

	"github.com/rushteam/shoprec/core"
)

// Memory 是内存实现的商品目录，用于测试/开发/单进程部署。
// 商品加载后视为不可变：Get/All 返回内部指针，调用方不得修改。
type Memory struct {
	mu    sync.RWMutex
	byID  map[string]*core.Product
	order []string // 保持加载顺序，All 的返回顺序可预测
}

func NewMemory(products ...*core.Product) *Memory {
	m := &Memory{
		byID: make(map[string]*core.Product, len(products)),
	}
	for _, p := range products {
		m.Add(p)
	}
	return m
}

func (m *Memory) Name() string { return "catalog.memory" }

// Add 登记一件商品；同 ID 重复登记覆盖旧值，顺序保持首次位置。
func (m *Memory) Add(p *core.Product) {
	if p == nil || p.ID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.byID[p.ID] = p
}

func (m *Memory) Get(ctx context.Context, id string) (*core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.byID[id]
	if !ok {
		return nil, core.ErrCatalogNotFound
	}
	return p, nil
}

func (m *Memory) All(ctx context.Context) ([]*core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out, nil
}

var _ core.Catalog = (*Memory)(nil)
