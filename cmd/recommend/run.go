package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rushteam/laptoprec/config"
	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/dispatch"
	"github.com/rushteam/laptoprec/filter"
	"github.com/rushteam/laptoprec/pkg/logging"
	"github.com/rushteam/laptoprec/store"
)

const (
	exitOK    = 0
	exitUsage = 1
	exitStore = 2

	connectTimeout = 10 * time.Second
)

const usage = "usage: recommend [-config path] <content_based|collaborative|hybrid|personalized|track_view|track_save> <id> [id|rating|note]"

var errUsage = core.NewDomainError(core.ModuleDispatch, core.ErrorCodeInvalidInput, usage)

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return fail(stdout, errUsage)
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return fail(stdout, errUsage)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fail(stdout, core.NewDomainError(core.ModuleDispatch, core.ErrorCodeInvalidInput, err.Error()))
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: stderr})

	mode := rest[0]
	switch mode {
	case "track_view", "track_save":
		req, err := trackRequest(mode, rest[1:])
		if err != nil {
			return fail(stdout, err)
		}
		if err := req.Validate(); err != nil {
			return fail(stdout, err)
		}
		b, err := openBackend(ctx, cfg, logger)
		if err != nil {
			return fail(stdout, err)
		}
		defer b.close()
		if err := dispatch.Track(ctx, b.recorder, req); err != nil {
			return fail(stdout, err)
		}
		return write(stdout, []core.Candidate{})
	}

	req := dispatch.Request{Mode: mode}
	switch mode {
	case dispatch.ModeCollaborative, dispatch.ModePersonalized:
		req.UserID = rest[1]
	default:
		req.ItemID = rest[1]
		if len(rest) > 2 {
			req.UserID = rest[2]
		}
	}

	// 参数错误不连接存储
	if err := req.Validate(); err != nil {
		return fail(stdout, err)
	}

	opts := []dispatch.Option{dispatch.WithConfig(cfg), dispatch.WithLogger(logger)}
	if cfg.Filter.Expression != "" {
		f, err := filter.NewExprFilter(cfg.Filter.Expression)
		if err != nil {
			return fail(stdout, err)
		}
		logger.Debug().Str("expr", f.Expr()).Msg("candidate filter enabled")
		opts = append(opts, dispatch.WithFilter(f))
	}

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return fail(stdout, err)
	}
	defer b.close()

	out, err := dispatch.New(b.catalog, opts...).Dispatch(ctx, req)
	if err != nil {
		return fail(stdout, err)
	}
	return write(stdout, out)
}

func trackRequest(mode string, args []string) (dispatch.TrackRequest, error) {
	if len(args) < 2 {
		return dispatch.TrackRequest{}, errUsage
	}
	req := dispatch.TrackRequest{UserID: args[0], ItemID: args[1]}
	if mode == "track_view" {
		req.Kind = dispatch.TrackView
		if len(args) > 2 {
			rating, err := strconv.Atoi(args[2])
			if err != nil {
				return req, core.NewDomainError(core.ModuleDispatch, core.ErrorCodeInvalidInput, fmt.Sprintf("rating must be an integer, got %q", args[2]))
			}
			req.Rating = rating
		}
		return req, nil
	}
	req.Kind = dispatch.TrackSave
	if len(args) > 2 {
		req.Note = args[2]
	}
	return req, nil
}

// backend 是打开的存储及其释放函数。
type backend struct {
	catalog  core.Catalog
	recorder core.InteractionRecorder
	close    func()
}

func openBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*backend, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Store.Backend {
	case config.BackendMemory:
		c := store.NewKVCatalog(store.NewMemoryStore(), cfg.Store.Redis.KeyPrefix)
		if cfg.Store.Memory.SeedFile != "" {
			seed, err := store.ReadSeedFile(cfg.Store.Memory.SeedFile)
			if err != nil {
				return nil, err
			}
			if err := c.Load(ctx, seed); err != nil {
				return nil, err
			}
		}
		logger.Debug().Str("backend", c.Name()).Msg("catalog ready")
		return &backend{catalog: c, recorder: c, close: func() {}}, nil

	case config.BackendRedis:
		kv, err := store.NewRedisStore(connectCtx, store.RedisOptions{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		c := store.NewKVCatalog(kv, cfg.Store.Redis.KeyPrefix)
		logger.Debug().Str("backend", c.Name()).Str("addr", cfg.Store.Redis.Addr).Msg("catalog ready")
		return &backend{catalog: c, recorder: c, close: func() { _ = kv.Close() }}, nil

	default:
		client, err := store.NewMongoClient(connectCtx, cfg.Store.Mongo.URI)
		if err != nil {
			return nil, err
		}
		c := store.NewMongoCatalog(client, cfg.Store.Mongo.Database)
		logger.Debug().Str("backend", c.Name()).Str("database", cfg.Store.Mongo.Database).Msg("catalog ready")
		return &backend{catalog: c, recorder: c, close: func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			_ = c.Close(closeCtx)
		}}, nil
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// fail 输出错误并返回退出码：调用方错误为 1，存储不可用及其余错误为 2。
func fail(w io.Writer, err error) int {
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Error()})
	switch {
	case core.IsUnavailable(err):
		return exitStore
	case core.IsInvalidInput(err), core.IsNotFound(err):
		return exitUsage
	default:
		return exitStore
	}
}

func write(w io.Writer, v any) int {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fail(w, err)
	}
	return exitOK
}
