package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// ExcludeFilter 是显式排除过滤器：剔除排除列表里的商品。
// 典型用法是把当前正在浏览的商品从推荐位里拿掉。
// 列表来源有二：构造时的固定 ItemIDs，以及请求级 rctx.ExcludeIDs。
type ExcludeFilter struct {
	// ItemIDs 是构造时固定的排除列表（运营位黑名单等）
	ItemIDs []string
}

func NewExcludeFilter(itemIDs ...string) *ExcludeFilter {
	return &ExcludeFilter{ItemIDs: itemIDs}
}

func (f *ExcludeFilter) Name() string {
	return "filter.exclude"
}

func (f *ExcludeFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Recommendation,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}

	for _, id := range f.ItemIDs {
		if item.Product.ID == id {
			return true, nil
		}
	}
	if rctx != nil && rctx.Excluded(item.Product.ID) {
		return true, nil
	}
	return false, nil
}
