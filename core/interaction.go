package core

import "time"

// InteractionType 是用户行为类型：view / cart / wishlist / purchase。
type InteractionType string

const (
	InteractionView     InteractionType = "view"     // 浏览
	InteractionCart     InteractionType = "cart"     // 加购
	InteractionWishlist InteractionType = "wishlist" // 收藏
	InteractionPurchase InteractionType = "purchase" // 购买
)

// Weight 返回行为在亲和度矩阵中的权重。
// 约束：purchase > cart > wishlist > view（购买信号必须强于其他行为）。
// 未知类型返回 0，不计入矩阵。
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionView:
		return 1
	case InteractionWishlist:
		return 2
	case InteractionCart:
		return 3
	case InteractionPurchase:
		return 5
	default:
		return 0
	}
}

// Interaction 是一条用户/商品行为事件。
// 只追加、不修改、不删除；同一 (user, product) 的多条事件全部保留，
// 亲和度分数按权重累加（重复浏览也是信号，刻意不做幂等）。
type Interaction struct {
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	Type      InteractionType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Duration  time.Duration   `json:"duration,omitempty"`
}
