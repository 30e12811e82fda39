package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/laptoprec/core"
)

// 存储后端。
const (
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config 是应用配置（YAML），环境变量优先于文件。
//
//	recommend:
//	  default_top_k: 10
//	  peer_limit: 5
//	  content_weight: 0.7
//	  behavior_weight: 0.3
//	  headroom: 2
//	filter:
//	  expression: 'item.price <= 1500'
//	store:
//	  backend: mongo
//	  mongo: {uri: "mongodb://localhost:27017", database: laptop-predictor}
//	log: {level: info, format: json}
type Config struct {
	Recommend RecommendConfig `yaml:"recommend"`
	Filter    FilterConfig    `yaml:"filter"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
}

type RecommendConfig struct {
	DefaultTopK    int     `yaml:"default_top_k"`
	PeerLimit      int     `yaml:"peer_limit"`
	ContentWeight  float64 `yaml:"content_weight"`
	BehaviorWeight float64 `yaml:"behavior_weight"`
	Headroom       int     `yaml:"headroom"`
}

type FilterConfig struct {
	// Expression 是可选的 CEL 候选过滤表达式，为空表示不过滤
	Expression string `yaml:"expression"`
}

type StoreConfig struct {
	Backend string       `yaml:"backend"`
	Mongo   MongoConfig  `yaml:"mongo"`
	Redis   RedisConfig  `yaml:"redis"`
	Memory  MemoryConfig `yaml:"memory"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type MemoryConfig struct {
	// SeedFile 是启动时导入的 JSON 数据文件（可选）
	SeedFile string `yaml:"seed_file"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default 返回默认配置。
func Default() *Config {
	d := &core.DefaultRecallConfig{}
	return &Config{
		Recommend: RecommendConfig{
			DefaultTopK:    d.DefaultTopK(),
			PeerLimit:      d.DefaultPeerLimit(),
			ContentWeight:  d.DefaultContentWeight(),
			BehaviorWeight: d.DefaultBehaviorWeight(),
			Headroom:       d.DefaultHeadroom(),
		},
		Store: StoreConfig{
			Backend: BackendMongo,
			Mongo: MongoConfig{
				URI:      "mongodb://localhost:27017",
				Database: "laptop-predictor",
			},
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "laptop",
			},
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load 读取配置：默认值 -> YAML 文件（path 为空时跳过）-> .env -> 环境变量，最后校验。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	// .env 不存在不是错误
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Store.Backend = getEnv("STORE_BACKEND", c.Store.Backend)
	c.Store.Mongo.URI = getEnv("MONGODB_URI", c.Store.Mongo.URI)
	c.Store.Mongo.Database = getEnv("MONGODB_DATABASE", c.Store.Mongo.Database)
	c.Store.Redis.Addr = getEnv("REDIS_ADDR", c.Store.Redis.Addr)
	c.Store.Redis.Password = getEnv("REDIS_PASSWORD", c.Store.Redis.Password)
	c.Store.Memory.SeedFile = getEnv("SEED_FILE", c.Store.Memory.SeedFile)
	c.Filter.Expression = getEnv("FILTER_EXPRESSION", c.Filter.Expression)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.Store.Redis.DB = db
	}
	return nil
}

// Validate 校验配置取值范围。
func (c *Config) Validate() error {
	var errs []error
	r := c.Recommend
	if r.DefaultTopK <= 0 {
		errs = append(errs, fmt.Errorf("recommend.default_top_k must be > 0, got %d", r.DefaultTopK))
	}
	if r.PeerLimit <= 0 {
		errs = append(errs, fmt.Errorf("recommend.peer_limit must be > 0, got %d", r.PeerLimit))
	}
	if r.Headroom <= 0 {
		errs = append(errs, fmt.Errorf("recommend.headroom must be > 0, got %d", r.Headroom))
	}
	if r.ContentWeight <= 0 || r.ContentWeight > 1 {
		errs = append(errs, fmt.Errorf("recommend.content_weight must be in (0, 1], got %v", r.ContentWeight))
	}
	if r.BehaviorWeight <= 0 || r.BehaviorWeight > 1 {
		errs = append(errs, fmt.Errorf("recommend.behavior_weight must be in (0, 1], got %v", r.BehaviorWeight))
	}

	switch c.Store.Backend {
	case BackendMongo:
		if c.Store.Mongo.URI == "" {
			errs = append(errs, errors.New("store.mongo.uri is required"))
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("store.backend must be one of mongo, redis, memory, got %q", c.Store.Backend))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// 实现 core.RecallConfig。
func (c *Config) DefaultTopK() int              { return c.Recommend.DefaultTopK }
func (c *Config) DefaultPeerLimit() int         { return c.Recommend.PeerLimit }
func (c *Config) DefaultHeadroom() int          { return c.Recommend.Headroom }
func (c *Config) DefaultContentWeight() float64 { return c.Recommend.ContentWeight }
func (c *Config) DefaultBehaviorWeight() float64 {
	return c.Recommend.BehaviorWeight
}

var _ core.RecallConfig = (*Config)(nil)

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
