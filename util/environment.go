package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type handServerEnvironment struct {
	PersistMethod    string
	RedisHost        string
	RedisPort        string
	RedisPW          string
	RedisDB          string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPW       string
	PostgresDB       string
	PostgresSSLMode  string
	NatsURL          string
	DealerAddr       string
	DealerRPS        string
	HTTPPort         string
	LogLevel         string
	EngineConfigFile string
}

// Env is a helper object for accessing environment variables.
var Env = &handServerEnvironment{
	PersistMethod:    "PERSIST_METHOD",
	RedisHost:        "REDIS_HOST",
	RedisPort:        "REDIS_PORT",
	RedisPW:          "REDIS_PW",
	RedisDB:          "REDIS_DB",
	PostgresHost:     "POSTGRES_HOST",
	PostgresPort:     "POSTGRES_PORT",
	PostgresUser:     "POSTGRES_USER",
	PostgresPW:       "POSTGRES_PASSWORD",
	PostgresDB:       "POSTGRES_DB",
	PostgresSSLMode:  "POSTGRES_SSL_MODE",
	NatsURL:          "NATS_URL",
	DealerAddr:       "DEALER_ADDR",
	DealerRPS:        "DEALER_RPS",
	HTTPPort:         "HTTP_PORT",
	LogLevel:         "LOG_LEVEL",
	EngineConfigFile: "ENGINE_CONFIG",
}

func (e *handServerEnvironment) required(name string) string {
	v := os.Getenv(name)
	if v == "" {
		msg := fmt.Sprintf("%s is not defined", name)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return v
}

func (e *handServerEnvironment) requiredInt(name string) int {
	s := e.required(name)
	n, err := strconv.Atoi(s)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for %s", s, name)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return n
}

// GetPersistMethod returns memory, redis or postgres. Defaults to memory.
func (e *handServerEnvironment) GetPersistMethod() string {
	method := strings.ToLower(os.Getenv(e.PersistMethod))
	if method == "" {
		return "memory"
	}
	return method
}

func (e *handServerEnvironment) GetRedisHost() string {
	return e.required(e.RedisHost)
}

func (e *handServerEnvironment) GetRedisPort() int {
	return e.requiredInt(e.RedisPort)
}

func (e *handServerEnvironment) GetRedisPW() string {
	return os.Getenv(e.RedisPW)
}

func (e *handServerEnvironment) GetRedisDB() int {
	if os.Getenv(e.RedisDB) == "" {
		return 0
	}
	return e.requiredInt(e.RedisDB)
}

func (e *handServerEnvironment) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", e.GetRedisHost(), e.GetRedisPort())
}

func (e *handServerEnvironment) GetPostgresHost() string {
	return e.required(e.PostgresHost)
}

func (e *handServerEnvironment) GetPostgresPort() int {
	return e.requiredInt(e.PostgresPort)
}

func (e *handServerEnvironment) GetPostgresUser() string {
	return e.required(e.PostgresUser)
}

func (e *handServerEnvironment) GetPostgresPW() string {
	return e.required(e.PostgresPW)
}

func (e *handServerEnvironment) GetPostgresDB() string {
	v := os.Getenv(e.PostgresDB)
	if v == "" {
		return "poker"
	}
	return v
}

func (e *handServerEnvironment) GetPostgresSSLMode() string {
	v := os.Getenv(e.PostgresSSLMode)
	if v == "" {
		return "disable"
	}
	return v
}

func (e *handServerEnvironment) GetPostgresConnStr() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		e.GetPostgresHost(),
		e.GetPostgresPort(),
		e.GetPostgresUser(),
		e.GetPostgresPW(),
		e.GetPostgresDB(),
		e.GetPostgresSSLMode(),
	)
}

// GetNatsURL returns an empty string when NATS telemetry is disabled.
func (e *handServerEnvironment) GetNatsURL() string {
	return os.Getenv(e.NatsURL)
}

// GetDealerAddr returns an empty string when the static dealer should be used.
func (e *handServerEnvironment) GetDealerAddr() string {
	return os.Getenv(e.DealerAddr)
}

func (e *handServerEnvironment) GetDealerRPS() float64 {
	s := os.Getenv(e.DealerRPS)
	if s == "" {
		return 50
	}
	rps, err := strconv.ParseFloat(s, 64)
	if err != nil || rps <= 0 {
		msg := fmt.Sprintf("Invalid dealer rate [%s]", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return rps
}

func (e *handServerEnvironment) GetHTTPPort() int {
	if os.Getenv(e.HTTPPort) == "" {
		return 8097
	}
	return e.requiredInt(e.HTTPPort)
}

func (e *handServerEnvironment) GetEngineConfigFile() string {
	return os.Getenv(e.EngineConfigFile)
}

func (e *handServerEnvironment) GetZeroLogLogLevel() zerolog.Level {
	v := strings.ToLower(os.Getenv(e.LogLevel))
	switch v {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
