package core

import "github.com/rushteam/shoprec/pkg/utils"

// RecommendContext 承载单次推荐请求的用户/场景信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string // 使用 string 类型（通用，支持所有 ID 格式）
	Scene  string // 请求场景：homepage / product_page / cart 等

	// Limit 是请求方期望的结果条数；<= 0 时由各策略使用自身默认值
	Limit int

	// ExcludeIDs 是显式排除列表（例如当前正在浏览的商品）
	ExcludeIDs []string

	// ProductID 是锚点商品（相似/关联召回用），非商品页场景为空
	ProductID string

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：新用户、价格敏感等
	Labels map[string]utils.Label

	// Params 请求级上下文参数（device_type、query 等动态属性）
	Params map[string]any
}

// Excluded 判断商品是否在显式排除列表中。
func (rctx *RecommendContext) Excluded(productID string) bool {
	for _, id := range rctx.ExcludeIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
