package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shoprec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("product", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是推荐规则的解释器，使用 CEL (Common Expression Language) 实现。
// 运营可以用表达式描述剔除/保留规则，不用改代码发版。
//
// 表达式语法（CEL 标准语法）：
//   - 商品字段：product.category == "Barn Doors" / product.price < 500.0
//   - 分数：item.score > 0.7
//   - 标签：label.recall_source == "u2i"
//   - 逻辑：product.category == "Hardware" && item.score > 0.3
//   - 场景：rctx.scene == "homepage"
//
// 注意：访问不存在的 key 会报错，用 label.key != null 检查存在性。
type Eval struct {
	item *core.Recommendation
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的规则解释器。
func NewEval(item *core.Recommendation, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 解析并执行规则表达式，返回布尔结果。空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	labels := make(map[string]interface{})
	if e.item != nil {
		for k, v := range e.item.Labels {
			// label.recall_source 直接返回 value，存在性用 != null 判断
			labels[k] = v.Value
		}
	}

	product := map[string]interface{}{}
	if e.item != nil && e.item.Product != nil {
		p := e.item.Product
		product = map[string]interface{}{
			"id":       p.ID,
			"name":     p.Name,
			"category": p.Category,
			"price":    p.Price,
			"style":    p.Style,
			"tags":     p.Tags,
			"rating":   p.Rating,
		}
	}

	item := map[string]interface{}{}
	if e.item != nil {
		item = map[string]interface{}{
			"score":    e.item.Score,
			"reason":   e.item.Reason,
			"strategy": string(e.item.Strategy),
		}
	}

	rctx := map[string]interface{}{}
	if e.rctx != nil {
		rctx = map[string]interface{}{
			"user_id":    e.rctx.UserID,
			"scene":      e.rctx.Scene,
			"product_id": e.rctx.ProductID,
			"params":     e.rctx.Params,
		}
	}

	return map[string]interface{}{
		"item":    item,
		"product": product,
		"label":   labels,
		"rctx":    rctx,
	}
}
