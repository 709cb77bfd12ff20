package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env             string `mapstructure:"env"`
	Port            int    `mapstructure:"port"`
	ShutdownSeconds int    `mapstructure:"shutdown_seconds"`
	ClientURL       string `mapstructure:"client_url"`
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type AuthConf struct {
	AccessSecret          string `mapstructure:"access_secret"`
	RefreshSecret         string `mapstructure:"refresh_secret"`
	AccessExpirationHours int    `mapstructure:"access_expiration_hours"`
	Issuer                string `mapstructure:"issuer"`
	StrictRefreshPersist  bool   `mapstructure:"strict_refresh_persist"`
	RequireVerifiedEmail  bool   `mapstructure:"require_verified_email"`
	ResetCodeTTLHours     int    `mapstructure:"reset_code_ttl_hours"`
	PasswordCooldownDays  int    `mapstructure:"password_cooldown_days"`
	JanitorIntervalHours  int    `mapstructure:"janitor_interval_hours"`
	RefreshMaxAgeDays     int    `mapstructure:"refresh_max_age_days"`
}

type RedisConf struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SMTPConf struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type Config struct {
	App   AppConf   `mapstructure:"app"`
	Mongo MongoConf `mapstructure:"mongodb"`
	Auth  AuthConf  `mapstructure:"auth"`
	Redis RedisConf `mapstructure:"redis"`
	SMTP  SMTPConf  `mapstructure:"smtp"`
	Log   struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	ShutdownTimeout  time.Duration
	AccessExpiration time.Duration
	ResetCodeTTL     time.Duration
	JanitorInterval  time.Duration
	RefreshMaxAge    time.Duration
}

// Load reads the yaml config at path, with environment variables overriding
// file values (APP_PORT, MONGODB_URI, AUTH_ACCESS_SECRET, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSeconds) * time.Second
	cfg.AccessExpiration = time.Duration(cfg.Auth.AccessExpirationHours) * time.Hour
	cfg.ResetCodeTTL = time.Duration(cfg.Auth.ResetCodeTTLHours) * time.Hour
	cfg.JanitorInterval = time.Duration(cfg.Auth.JanitorIntervalHours) * time.Hour
	cfg.RefreshMaxAge = time.Duration(cfg.Auth.RefreshMaxAgeDays) * 24 * time.Hour

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 3000)
	v.SetDefault("app.shutdown_seconds", 15)
	v.SetDefault("app.client_url", "http://localhost:5173")

	v.SetDefault("mongodb.database", "platform")

	v.SetDefault("auth.access_expiration_hours", 168)
	v.SetDefault("auth.issuer", "meridianvest")
	v.SetDefault("auth.strict_refresh_persist", true)
	v.SetDefault("auth.require_verified_email", false)
	v.SetDefault("auth.reset_code_ttl_hours", 24)
	v.SetDefault("auth.password_cooldown_days", 21)
	v.SetDefault("auth.janitor_interval_hours", 24)
	v.SetDefault("auth.refresh_max_age_days", 90)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("smtp.port", 587)

	v.SetDefault("log.level", "info")
}
