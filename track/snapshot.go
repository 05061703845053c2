package track

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/shoprec/core"
)

// DefaultSnapshotKey 是行为日志快照默认的 hash key。
const DefaultSnapshotKey = "track:log"

// Snapshot 把行为日志按用户分组刷入 KV 存储的 hash：
// field 是用户 ID，value 是该用户全量事件的 JSON。
// 快照的是日志本身而不是派生矩阵：恢复后重放日志就能得到
// 等价的矩阵，矩阵永远不落盘。
// 先删旧快照再重写，避免残留已不存在的用户。
func (s *Store) Snapshot(ctx context.Context, kv core.KeyValueStore, key string) error {
	if kv == nil {
		return nil
	}
	if key == "" {
		key = DefaultSnapshotKey
	}

	s.mu.RLock()
	byUser := make(map[string][]core.Interaction)
	for _, in := range s.interactions {
		byUser[in.UserID] = append(byUser[in.UserID], in)
	}
	s.mu.RUnlock()

	if err := kv.Delete(ctx, key); err != nil {
		return err
	}
	for userID, log := range byUser {
		data, err := json.Marshal(log)
		if err != nil {
			return fmt.Errorf("marshal log of user %s: %w", userID, err)
		}
		if err := kv.HSet(ctx, key, userID, data); err != nil {
			return err
		}
	}
	return nil
}

// Restore 从快照读回全部用户的日志并重放进矩阵。
// 追加到现有日志之后，通常在空 Store 上调用。快照不存在时
// 视为空快照，不报错。
func (s *Store) Restore(ctx context.Context, kv core.KeyValueStore, key string) error {
	if kv == nil {
		return nil
	}
	if key == "" {
		key = DefaultSnapshotKey
	}

	fields, err := kv.HGetAll(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return err
	}
	for userID, data := range fields {
		if err := s.replay(userID, data); err != nil {
			return err
		}
	}
	return nil
}

// RestoreUser 只恢复单个用户的日志。快照里没有该用户时不报错。
func (s *Store) RestoreUser(ctx context.Context, kv core.KeyValueStore, key, userID string) error {
	if kv == nil {
		return nil
	}
	if key == "" {
		key = DefaultSnapshotKey
	}

	data, err := kv.HGet(ctx, key, userID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return err
	}
	return s.replay(userID, data)
}

func (s *Store) replay(userID string, data []byte) error {
	var log []core.Interaction
	if err := json.Unmarshal(data, &log); err != nil {
		return fmt.Errorf("unmarshal log of user %s: %w", userID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range log {
		s.interactions = append(s.interactions, in)
		s.apply(in)
	}
	return nil
}
