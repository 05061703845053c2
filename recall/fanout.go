package recall

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 结果按 Sources 的声明顺序拼接（与完成顺序无关），保证下游
// first-wins 去重时的优先级稳定：聚合时协同过滤排在内容召回前面，
// 同一商品两边都命中时归属协同过滤。
type Fanout struct {
	Sources       []Source
	Dedup         bool          // 按商品 ID first-wins 去重
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Recommendation,
) ([]*core.Recommendation, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	// 每个源写自己的槽位，结束后按声明顺序拼接
	slots := make([][]*core.Recommendation, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		i, s := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 单个源超时或出错不中断其他源
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, it := range items {
				it.PutLabel("fanout_source", utils.Label{Value: s.Name(), Source: "recall"})
			}
			slots[i] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	all := make([]*core.Recommendation, 0)
	for _, items := range slots {
		all = append(all, items...)
	}
	if !n.Dedup {
		return all, nil
	}
	return mergeFirst(all), nil
}

// mergeFirst 按商品 ID 去重，保留第一个出现的；后续重复项的 labels 合并进去。
func mergeFirst(all []*core.Recommendation) []*core.Recommendation {
	seen := make(map[string]*core.Recommendation, len(all))
	out := make([]*core.Recommendation, 0, len(all))
	for _, it := range all {
		if it == nil || it.Product == nil {
			continue
		}
		if old, ok := seen[it.Product.ID]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.Product.ID] = it
		out = append(out, it)
	}
	return out
}
