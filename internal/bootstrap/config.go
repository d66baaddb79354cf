package bootstrap

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	RedisUrl           string `mapstructure:"REDIS_URL"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int    `mapstructure:"REDIS_DB"`
	MongoUri           string `mapstructure:"MONGO_URI"`
	MongoDatabase      string `mapstructure:"MONGO_DATABASE"`
	ArchiveDriver      string `mapstructure:"ARCHIVE_DRIVER"`
	SqlitePath         string `mapstructure:"SQLITE_PATH"`
	EngineGrpcAddr     string `mapstructure:"ENGINE_GRPC_ADDR"`
	EngineGrpcPort     string `mapstructure:"ENGINE_GRPC_PORT"`
	IsLocalCors        bool   `mapstructure:"LOCAL_CORS"`
	CorsOrigins        string `mapstructure:"CORS_ORIGINS"`
	BookPath           string `mapstructure:"BOOK_PATH"`
	DefaultPersona     string `mapstructure:"DEFAULT_PERSONA"`
	DefaultTimeControl string `mapstructure:"DEFAULT_TIME_CONTROL"`
	ClockCadenceMs     int    `mapstructure:"CLOCK_CADENCE_MS"`
	SessionTTLHours    int    `mapstructure:"SESSION_TTL_HOURS"`
}

const (
	ArchiveMongo  = "mongo"
	ArchiveSqlite = "sqlite"
	ArchiveNone   = "none"
)

var defaults = map[string]any{
	"SERVER_PORT":          "8080",
	"REDIS_URL":            "localhost:6379",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"MONGO_URI":            "mongodb://localhost:27017",
	"MONGO_DATABASE":       "persona_chess",
	"ARCHIVE_DRIVER":       ArchiveMongo,
	"SQLITE_PATH":          "persona_chess.db",
	"ENGINE_GRPC_ADDR":     "",
	"ENGINE_GRPC_PORT":     "8082",
	"LOCAL_CORS":           false,
	"CORS_ORIGINS":         "http://localhost:3000,http://localhost:5173",
	"BOOK_PATH":            "",
	"DEFAULT_PERSONA":      "club",
	"DEFAULT_TIME_CONTROL": "blitz",
	"CLOCK_CADENCE_MS":     100,
	"SESSION_TTL_HOURS":    11,
}

// Setup reads cfgPath (a .env file) when it exists and lets environment
// variables override every key.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if strings.HasSuffix(cfgPath, ".env") {
			v.SetConfigType("env")
		}
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ArchiveDriver = strings.ToLower(strings.TrimSpace(cfg.ArchiveDriver))
	return &cfg, nil
}

func (c Config) ClockCadence() time.Duration {
	if c.ClockCadenceMs <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.ClockCadenceMs) * time.Millisecond
}

func (c Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 11 * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// AllowedOrigins splits CORS_ORIGINS on commas, dropping blanks.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CorsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, strings.TrimSuffix(o, "/"))
		}
	}
	return out
}
