package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/filter"
	"github.com/rushteam/laptoprec/pipeline"
	"github.com/rushteam/laptoprec/pkg/utils"
	"github.com/rushteam/laptoprec/recall"
	"github.com/rushteam/laptoprec/rerank"
)

// Dispatcher 是推荐入口（Entry Dispatcher）：校验请求，按模式组装
// recall -> filter -> topN 的 Pipeline 并执行，输出可直接序列化的候选列表。
//
// 召回源无状态，Dispatcher 可被多个请求并发使用。
type Dispatcher struct {
	catalog core.Catalog
	logger  zerolog.Logger
	filters []filter.Filter

	topK           int
	peerLimit      int
	headroom       int
	contentWeight  float64
	behaviorWeight float64

	content      *recall.ContentRecall
	behavior     *recall.BehaviorRecall
	hybrid       *recall.Hybrid
	personalized *recall.PersonalizedRecall
}

// Option 配置 Dispatcher。
type Option func(*Dispatcher)

// WithLogger 设置日志，默认不输出。
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithConfig 使用 RecallConfig 提供的默认值。
func WithConfig(cfg core.RecallConfig) Option {
	return func(d *Dispatcher) {
		d.topK = cfg.DefaultTopK()
		d.peerLimit = cfg.DefaultPeerLimit()
		d.headroom = cfg.DefaultHeadroom()
		d.contentWeight = cfg.DefaultContentWeight()
		d.behaviorWeight = cfg.DefaultBehaviorWeight()
	}
}

// WithTopK 设置请求未指定条数时的默认值。
func WithTopK(k int) Option {
	return func(d *Dispatcher) { d.topK = k }
}

// WithFilter 追加候选过滤器（在目标/排除 ID 过滤之后执行）。
func WithFilter(f filter.Filter) Option {
	return func(d *Dispatcher) { d.filters = append(d.filters, f) }
}

func New(catalog core.Catalog, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		catalog: catalog,
		logger:  zerolog.Nop(),
	}
	WithConfig(&core.DefaultRecallConfig{})(d)
	for _, opt := range opts {
		opt(d)
	}

	d.content = &recall.ContentRecall{Catalog: catalog, TopK: d.topK}
	d.behavior = &recall.BehaviorRecall{
		Catalog:   catalog,
		TopK:      d.topK,
		PeerLimit: d.peerLimit,
		Logger:    d.logger,
	}
	d.hybrid = &recall.Hybrid{
		Content:        d.content,
		Behavior:       d.behavior,
		ContentWeight:  d.contentWeight,
		BehaviorWeight: d.behaviorWeight,
		Headroom:       d.headroom,
		TopK:           d.topK,
	}
	d.personalized = &recall.PersonalizedRecall{Catalog: catalog}
	return d
}

// Dispatch 执行一次推荐。
//
// 请求无效时返回 INVALID_INPUT 的 DomainError，且不访问存储；
// 存储错误原样返回；personalized 模式下用户偏好不存在返回 NOT_FOUND；
// 没有结果时返回空切片（非 nil）。
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) ([]core.Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	rctx := d.newContext(req)
	requestID, _ := rctx.GetLabel("request_id")
	logger := d.logger.With().
		Str("request_id", requestID.Value).
		Str("mode", req.Mode).
		Str("item_id", req.ItemID).
		Str("user_id", req.UserID).
		Logger()
	logger.Debug().Int("top_k", rctx.TopK).Msg("recommend start")

	p := d.pipeline(req.Mode, logger)
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		logger.Debug().Err(err).Dur("latency", time.Since(start)).Msg("recommend failed")
		return nil, err
	}

	out := core.NewCandidates(items)
	logger.Debug().Int("candidates", len(out)).Dur("latency", time.Since(start)).Msg("recommend done")
	return out, nil
}

func (d *Dispatcher) newContext(req Request) *core.RecommendContext {
	topK := req.TopK
	if topK <= 0 {
		topK = d.topK
		if req.Mode == ModePersonalized {
			topK = recall.DefaultPersonalizedTopK
		}
	}
	rctx := &core.RecommendContext{
		UserID: req.UserID,
		TopK:   topK,
	}
	rctx.PutLabel("request_id", utils.Label{Value: uuid.NewString(), Source: "dispatch"})
	rctx.PutLabel("mode", utils.Label{Value: req.Mode, Source: "dispatch"})
	if req.Mode != ModeCollaborative && req.Mode != ModePersonalized {
		rctx.ItemID = req.ItemID
	}
	if len(req.Exclude) > 0 {
		rctx.Exclude = make(map[string]struct{}, len(req.Exclude))
		for _, id := range req.Exclude {
			rctx.Exclude[id] = struct{}{}
		}
	}
	return rctx
}

func (d *Dispatcher) pipeline(mode string, logger zerolog.Logger) *pipeline.Pipeline {
	var src recall.Source
	switch mode {
	case ModeContentBased:
		src = d.content
	case ModeCollaborative:
		src = d.behavior
	case ModePersonalized:
		src = d.personalized
	default:
		src = d.hybrid
	}

	filters := make([]filter.Filter, 0, len(d.filters)+1)
	filters = append(filters, filter.NewExcludeFilter())
	filters = append(filters, d.filters...)

	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			recall.NewNode(src),
			&filter.FilterNode{Filters: filters, Logger: logger},
			&rerank.TopNNode{},
		},
		Hook: func(node pipeline.Node, in, out int) {
			logger.Debug().Str("node", node.Name()).Str("kind", string(node.Kind())).Int("in", in).Int("out", out).Msg("node done")
		},
	}
}

// Track 记录一次交互（浏览 / 收藏）。
func Track(ctx context.Context, recorder core.InteractionRecorder, req TrackRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Kind == TrackView {
		return recorder.RecordView(ctx, req.UserID, req.ItemID, req.Rating)
	}
	return recorder.RecordSave(ctx, req.UserID, req.ItemID, req.Note)
}
