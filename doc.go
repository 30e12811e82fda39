// Package laptoprec 是一个笔记本电脑推荐工具包。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → TopN）
// - Labels-first: labels 全链路透传（recall_source / based_on / filtered），便于 explain
// - 三种召回：内容相似（TF-IDF + 余弦）、相似用户行为、两者加权融合
// - 存储可替换：core.Catalog 由 MongoDB 或 KV（Redis / 内存）实现
package laptoprec

import (
	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/dispatch"
	"github.com/rushteam/laptoprec/pipeline"
)

// 轻量 facade：便于用户直接 import "laptoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

type Dispatcher = dispatch.Dispatcher
type Request = dispatch.Request
type Candidate = core.Candidate

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)

const (
	ModeContentBased  = dispatch.ModeContentBased
	ModeCollaborative = dispatch.ModeCollaborative
	ModeHybrid        = dispatch.ModeHybrid
	ModePersonalized  = dispatch.ModePersonalized
)

// NewDispatcher 创建推荐入口，见 dispatch.New。
func NewDispatcher(catalog core.Catalog, opts ...dispatch.Option) *Dispatcher {
	return dispatch.New(catalog, opts...)
}
