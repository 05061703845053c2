// Package shoprec 是零售门店的商品推荐引擎（Storefront Recommender）。
//
// 设计要点：
// - Pipeline-first: 聚合链路通过 Node 串联（Recall fan-out → Filter → Dedup → Sort → TopN）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 端口分离: 商品目录（core.Catalog）、行为日志与亲和度矩阵
//   （core.EngagementStore）、KV 存储（core.Store）都定义在领域层，
//   策略逻辑不感知后端，换存储不动打分代码
//
// 入口是显式构造、依赖注入的 Engine（进程启动时建一次，引用传给各
// 请求处理器），见 engine.go。
package shoprec

import "github.com/rushteam/shoprec/pipeline"

// 轻量 facade：便于用户直接 import "shoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
