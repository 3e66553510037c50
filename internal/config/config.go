package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultSecret 默认会话密钥，生产环境必须覆盖
const DefaultSecret = "your-secret-key-change-in-production"

// configPaths 配置文件搜索路径，CONFIG_PATH 优先
var configPaths = []string{"config.yaml", "config.yml"}

// Config 应用配置
type Config struct {
	Env       string `koanf:"env"`
	AppSecret string `koanf:"app_secret"`
	Port      string `koanf:"port"`
	// CORSOrigins 允许跨域访问的前端地址，逗号分隔
	CORSOrigins string         `koanf:"cors_origins"`
	Database    DatabaseConfig `koanf:"database"`
	Log         LogConfig      `koanf:"log"`
	Filter      FilterConfig   `koanf:"filter"`

	// DatabaseURL 由 Database 拼装，不直接读取
	DatabaseURL string `koanf:"-"`
}

// 存储驱动
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig 数据库配置，Driver 为 postgres 或 memory
type DatabaseConfig struct {
	Driver       string `koanf:"driver"`
	Host         string `koanf:"host"`
	Port         string `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name"`
	SSLMode      string `koanf:"sslmode"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	LogQueries   bool   `koanf:"log_queries"`
	SeedFile     string `koanf:"seed_file"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// FilterConfig 筛选计数缓存与并发
type FilterConfig struct {
	CacheSize   int           `koanf:"cache_size"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
	Concurrency int           `koanf:"concurrency"`
}

func defaultConfig() *Config {
	return &Config{
		Env:         "development",
		AppSecret:   DefaultSecret,
		Port:        "5005",
		CORSOrigins: "http://localhost:5173",
		Database: DatabaseConfig{
			Driver:       DriverPostgres,
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "postgres",
			Name:         "moovie",
			SSLMode:      "disable",
			MaxOpenConns: 20,
			MaxIdleConns: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Filter: FilterConfig{
			CacheSize:   500,
			CacheTTL:    5 * time.Minute,
			Concurrency: 8,
		},
	}
}

// envKeys 环境变量到配置路径的映射，未列出的变量忽略
var envKeys = map[string]string{
	"app_env":               "env",
	"app_secret":            "app_secret",
	"port":                  "port",
	"cors_origins":          "cors_origins",
	"db_driver":             "database.driver",
	"db_host":               "database.host",
	"db_port":               "database.port",
	"db_user":               "database.user",
	"db_password":           "database.password",
	"db_name":               "database.name",
	"db_sslmode":            "database.sslmode",
	"db_max_open_conns":     "database.max_open_conns",
	"db_max_idle_conns":     "database.max_idle_conns",
	"db_log_queries":        "database.log_queries",
	"seed_file":             "database.seed_file",
	"log_level":             "log.level",
	"log_format":            "log.format",
	"filter_cache_size":     "filter.cache_size",
	"filter_cache_ttl":      "filter.cache_ttl",
	"hit_count_concurrency": "filter.concurrency",
}

func envTransform(key string) string {
	return envKeys[strings.ToLower(key)]
}

// Load 加载配置：默认值 -> 配置文件 -> 环境变量（含 .env）
func Load() (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("加载默认配置失败: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("加载配置文件 %s 失败: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("加载环境变量失败: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	db := cfg.Database
	cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		db.User, db.Password, db.Host, db.Port, db.Name, db.SSLMode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range configPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("不支持的 DB_DRIVER: %q", c.Database.Driver)
	}
	if c.Filter.CacheSize <= 0 {
		return errors.New("FILTER_CACHE_SIZE 必须大于 0")
	}
	if c.Filter.CacheTTL <= 0 {
		return errors.New("FILTER_CACHE_TTL 必须大于 0")
	}
	if c.Filter.Concurrency <= 0 {
		return errors.New("HIT_COUNT_CONCURRENCY 必须大于 0")
	}
	if c.Port == "" {
		return errors.New("PORT 不能为空")
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesDefaultSecret 生产环境仍使用默认密钥时由调用方告警
func (c *Config) UsesDefaultSecret() bool {
	return c.AppSecret == DefaultSecret
}

// AllowedOrigins CORS 白名单
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
