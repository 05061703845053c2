package recall

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// 内容匹配的分项权重。
const (
	contentWeightCategory = 0.4
	contentWeightStyle    = 0.3
	contentWeightPrice    = 0.2
	contentWeightTags     = 0.1
)

// Preferences 是从交互历史提炼出的用户偏好画像，
// 由 Content 召回消费，也可单独用于画像展示。
type Preferences struct {
	Categories map[string]int // 品类 -> 出现次数
	Styles     map[string]int // 风格 -> 出现次数
	Tags       map[string]int // 标签 -> 出现次数

	PriceMin float64
	PriceMax float64
	PriceAvg float64
}

// ExtractPreferences 汇总一组商品的品类/风格/标签频次与价格区间。
// products 为空时返回 nil。
func ExtractPreferences(products []*core.Product) *Preferences {
	if len(products) == 0 {
		return nil
	}

	p := &Preferences{
		Categories: make(map[string]int),
		Styles:     make(map[string]int),
		Tags:       make(map[string]int),
		PriceMin:   products[0].Price,
		PriceMax:   products[0].Price,
	}

	var total float64
	for _, prod := range products {
		p.Categories[prod.Category]++
		if prod.Style != "" {
			p.Styles[prod.Style]++
		}
		for _, tag := range prod.Tags {
			p.Tags[tag]++
		}

		total += prod.Price
		if prod.Price < p.PriceMin {
			p.PriceMin = prod.Price
		}
		if prod.Price > p.PriceMax {
			p.PriceMax = prod.Price
		}
	}
	p.PriceAvg = total / float64(len(products))
	return p
}

// PriceScore 返回价格贴合度，取值 [0, 1]。
// 落在 [min, max] 内为 1；否则按与均价的距离做线性衰减，
// 衰减半径取 max(avg-min, max-avg)。历史价格完全相同时半径为 0，
// 视为完美匹配返回 1（避免除零）。
func (p *Preferences) PriceScore(price float64) float64 {
	if price >= p.PriceMin && price <= p.PriceMax {
		return 1.0
	}

	maxDistance := p.PriceAvg - p.PriceMin
	if d := p.PriceMax - p.PriceAvg; d > maxDistance {
		maxDistance = d
	}
	if maxDistance == 0 {
		return 1.0
	}

	distance := price - p.PriceAvg
	if distance < 0 {
		distance = -distance
	}
	if score := 1 - distance/maxDistance; score > 0 {
		return score
	}
	return 0
}

// TagScore 返回标签重合度：命中偏好的标签数 / 候选标签总数。
// 候选无标签或画像无标签时为 0。
func (p *Preferences) TagScore(tags []string) float64 {
	if len(tags) == 0 || len(p.Tags) == 0 {
		return 0
	}
	match := 0
	for _, tag := range tags {
		if _, ok := p.Tags[tag]; ok {
			match++
		}
	}
	return float64(match) / float64(len(tags))
}

// Score 计算候选商品与画像的加权匹配分。
// 品类/风格是二值命中（出现即得分，不按频次加权），价格和标签按比例。
func (p *Preferences) Score(prod *core.Product) float64 {
	var score float64
	if _, ok := p.Categories[prod.Category]; ok {
		score += contentWeightCategory
	}
	if prod.Style != "" {
		if _, ok := p.Styles[prod.Style]; ok {
			score += contentWeightStyle
		}
	}
	score += p.PriceScore(prod.Price) * contentWeightPrice
	score += p.TagScore(prod.Tags) * contentWeightTags
	return score
}

// Content 是基于商品属性的内容召回源（Content-Based）。
//
// 核心思想："用户偏好某些属性的商品，推荐属性相近的其他商品"
//
// 算法流程：
//  1. 取用户交互历史，经目录解析成商品列表（查不到的 ID 丢弃）
//  2. 提炼偏好画像：品类/风格/标签频次 + 价格区间
//  3. 对未交互的全量候选按 0.4/0.3/0.2/0.1 加权打分，0 分剔除
//  4. 降序截断，解释话术引用最近交互的商品名
type Content struct {
	Catalog core.Catalog
	Store   core.EngagementStore

	// TopK 最终返回的商品数，<= 0 时用默认值
	TopK int
}

func (r *Content) Name() string {
	return "recall.content"
}

func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Recommendation, error) {
	if r.Store == nil || r.Catalog == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	history, err := r.Store.UserInteractions(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	// 交互过的 ID 集合按原始日志算（含目录里已下架的），
	// 画像只用还能解析到的商品
	interacted := make(map[string]struct{}, len(history))
	viewed := make([]*core.Product, 0, len(history))
	for _, in := range history {
		interacted[in.ProductID] = struct{}{}
		if p, err := r.Catalog.Get(ctx, in.ProductID); err == nil {
			viewed = append(viewed, p)
		}
	}
	if len(viewed) == 0 {
		return nil, nil
	}

	prefs := ExtractPreferences(viewed)
	reason := fmt.Sprintf("Similar to %s", viewed[0].Name)

	all, err := r.Catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Recommendation, 0)
	for _, p := range all {
		if _, ok := interacted[p.ID]; ok {
			continue
		}
		score := prefs.Score(p)
		if score <= 0 {
			continue
		}
		rec := core.NewRecommendation(p)
		rec.Score = score
		rec.Reason = reason
		rec.Strategy = core.StrategyContentBased
		rec.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if topK := limitOr(rctx, r.TopK, 6); len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}
