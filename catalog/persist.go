package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/shoprec/core"
)

// DefaultPersistPrefix 是目录落盘默认的 key 前缀。
const DefaultPersistPrefix = "catalog"

// Save 把目录整体写入 KV 存储：每件商品一个 key（批量写），
// 外加一个 index key 记录商品 ID 的加载顺序。
func Save(ctx context.Context, m *Memory, store core.Store, prefix string) error {
	if m == nil || store == nil {
		return nil
	}
	if prefix == "" {
		prefix = DefaultPersistPrefix
	}

	products, err := m.All(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(products))
	kvs := make(map[string][]byte, len(products))
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal product %s: %w", p.ID, err)
		}
		kvs[prefix+":"+p.ID] = data
		ids = append(ids, p.ID)
	}
	if len(kvs) > 0 {
		if err := store.BatchSet(ctx, kvs); err != nil {
			return err
		}
	}

	index, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return store.Set(ctx, prefix+":index", index)
}

// Load 从 KV 存储读回目录。index key 不存在时返回空目录，
// 不报错；index 里有但商品 key 缺失的条目直接跳过。
func Load(ctx context.Context, store core.Store, prefix string) (*Memory, error) {
	if prefix == "" {
		prefix = DefaultPersistPrefix
	}

	index, err := store.Get(ctx, prefix+":index")
	if err != nil {
		if core.IsStoreNotFound(err) {
			return NewMemory(), nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(index, &ids); err != nil {
		return nil, fmt.Errorf("unmarshal catalog index: %w", err)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, prefix+":"+id)
	}
	values, err := store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	m := NewMemory()
	for _, id := range ids {
		data, ok := values[prefix+":"+id]
		if !ok {
			continue
		}
		var p core.Product
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("unmarshal product %s: %w", id, err)
		}
		m.Add(&p)
	}
	return m, nil
}
