package core

import (
	"context"
	"time"
)

// EngagementStore 是行为日志与亲和度矩阵的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（track）实现
//   - 追加日志是事实来源，矩阵是派生索引：任何实现都必须保证
//     UserVector 等价于按权重重放全部 Record 过的事件
//   - Record 不校验 userID/productID 是否存在：记录侧零副作用，
//     查询侧负责容忍查不到的商品
//
// 实现：
//   - track.Store 实现此接口（内存日志 + 增量矩阵）
type EngagementStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Record 追加一条行为事件，并按 Type.Weight() 累加亲和度
	Record(ctx context.Context, in Interaction) error

	// UserVector 返回用户的亲和度向量 map[productID]score；
	// 没有任何行为的用户返回空 map
	UserVector(ctx context.Context, userID string) (map[string]float64, error)

	// AllUsers 返回出现过行为的全部用户 ID
	AllUsers(ctx context.Context) ([]string, error)

	// UserInteractions 返回用户的全部行为，最近的在前
	UserInteractions(ctx context.Context, userID string) ([]Interaction, error)

	// InteractionsSince 返回时间戳晚于 since 的全部行为（趋势召回用）
	InteractionsSince(ctx context.Context, since time.Time) ([]Interaction, error)

	// PurchasersOf 返回购买过该商品的用户 ID（购物篮关联用）
	PurchasersOf(ctx context.Context, productID string) ([]string, error)
}
