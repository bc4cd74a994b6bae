package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds application level configuration.
// Values are layered: defaults, then the optional CONFIG_FILE yaml, then environment variables.
type Config struct {
	ServerPort      string        `koanf:"server_port"`
	DBDriver        string        `koanf:"db_driver"`
	DBDSN           string        `koanf:"db_dsn"`
	ResetDB         bool          `koanf:"reset_db"`
	RedisAddr       string        `koanf:"redis_addr"`
	RedisDB         int           `koanf:"redis_db"`
	RedisPass       string        `koanf:"redis_password"`
	RecipeCacheTTL  time.Duration `koanf:"recipe_cache_ttl"`
	JWTSecret       string        `koanf:"jwt_secret"`
	JWTIssuer       string        `koanf:"jwt_issuer"`
	TokenTTL        time.Duration `koanf:"token_ttl"`
	BcryptCost      int           `koanf:"bcrypt_cost"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	SwaggerHost     string        `koanf:"swagger_host"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// knownKeys is the set of koanf keys environment variables may set.
var knownKeys = map[string]struct{}{
	"server_port": {}, "db_driver": {}, "db_dsn": {}, "reset_db": {},
	"redis_addr": {}, "redis_db": {}, "redis_password": {}, "recipe_cache_ttl": {},
	"jwt_secret": {}, "jwt_issuer": {}, "token_ttl": {}, "bcrypt_cost": {},
	"log_level": {}, "log_format": {}, "swagger_host": {}, "shutdown_timeout": {},
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		ServerPort:      "8080",
		DBDriver:        "mysql",
		DBDSN:           "user:password@tcp(localhost:3306)/recipes?charset=utf8mb4&parseTime=True&loc=Local",
		RedisAddr:       "localhost:6379",
		RecipeCacheTTL:  5 * time.Minute,
		JWTIssuer:       "recipebox",
		TokenTTL:        24 * time.Hour,
		BcryptCost:      10,
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds Config from defaults, the optional CONFIG_FILE and the environment.
func Load() (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(key)
			if _, ok := knownKeys[key]; !ok {
				return "", nil
			}
			return key, value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("jwt_secret must be provided")
	}
	if c.TokenTTL <= 0 {
		return errors.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	}
	switch c.DBDriver {
	case "mysql", "postgres", "memory":
	default:
		return errors.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	return nil
}
