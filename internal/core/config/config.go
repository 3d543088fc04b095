package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
	// 为空则只写 stdout
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string // mysql | postgres | sqlite
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Cache 具名缓存（角色列表等）
type Cache struct {
	Driver string `mapstructure:"driver"` // redis | memory
	TTLSec int    `mapstructure:"ttlSec"`
}

type Pagination struct {
	MaxLimit     int `mapstructure:"maxLimit"`
	DefaultLimit int `mapstructure:"defaultLimit"`
}

type Config struct {
	App        App
	Log        Log
	JWT        JWT
	DB         DB
	Redis      Redis      `mapstructure:"redis"`
	Cache      Cache      `mapstructure:"cache"`
	Pagination Pagination `mapstructure:"pagination"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "usercenter")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "usercenter")
	v.SetDefault("jwt.accessTokenTTLMin", 120)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "usercenter.db")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttlSec", 300)
	v.SetDefault("pagination.maxLimit", 100)
	v.SetDefault("pagination.defaultLimit", 20)
}

// Read 读取配置文件 + APP_ 前缀环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Pagination.MaxLimit <= 0 {
		c.Pagination.MaxLimit = 100
	}
	if c.Pagination.DefaultLimit <= 0 || c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		c.Pagination.DefaultLimit = min(20, c.Pagination.MaxLimit)
	}
	return &c, nil
}

// Load 启动期使用，失败直接退出
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}
