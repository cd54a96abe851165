package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	OSS         OSSConfig         `mapstructure:"oss"`
	Email       EmailConfig       `mapstructure:"email"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	Interaction InteractionConfig `mapstructure:"interaction"`
	CORS        CORSConfig        `mapstructure:"cors"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Upload      UploadConfig      `mapstructure:"upload"`
	Cleanup     CleanupConfig     `mapstructure:"cleanup"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret       string `mapstructure:"secret"`
	ExpireHours  int    `mapstructure:"expire_hours"`
	CookieName   string `mapstructure:"cookie_name"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// NotifyConfig controls how interaction and subscription mails leave the request path.
type NotifyConfig struct {
	MaintainerEmail string `mapstructure:"maintainer_email"`
	Mode            string `mapstructure:"mode"` // direct, queue
	Queue           string `mapstructure:"queue"`
	Workers         int    `mapstructure:"workers"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
}

type InteractionConfig struct {
	// EnquirySticky keeps an existing enquiry active on repeat calls instead of flipping it.
	EnquirySticky bool `mapstructure:"enquiry_sticky"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type UploadConfig struct {
	MaxFileSize int64 `mapstructure:"max_file_size"` // bytes, per file
	MaxImages   int   `mapstructure:"max_images"`
	MaxMemory   int64 `mapstructure:"max_memory"` // multipart parse buffer
}

type CleanupConfig struct {
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	NotifyModeDirect = "direct"
	NotifyModeQueue  = "queue"
)

func Load(configPath string) (*Config, error) {
	// .env is optional and only feeds the environment overrides below
	_ = godotenv.Load()

	// config.local.yaml carries real secrets and is not committed
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("jwt.expire_hours", 24*365*10)
	v.SetDefault("jwt.cookie_name", "token")
	v.SetDefault("notify.mode", NotifyModeDirect)
	v.SetDefault("notify.queue", "mail_jobs")
	v.SetDefault("notify.workers", 2)
	v.SetDefault("notify.timeout_seconds", 30)
	v.SetDefault("interaction.enquiry_sticky", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization"})
	v.SetDefault("rate_limit.requests", 250)
	v.SetDefault("rate_limit.window_minutes", 15)
	v.SetDefault("upload.max_file_size", 20<<20)
	v.SetDefault("upload.max_images", 10)
	v.SetDefault("upload.max_memory", 32<<20)
	v.SetDefault("cleanup.sweep_interval_minutes", 60)
	v.SetDefault("log.level", "info")
}
