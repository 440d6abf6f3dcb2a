package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type AppConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	RateLimit    int
}

type DbConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
}

// SecretConfig selects where the JWT signing secret comes from. InlineSecret,
// when non-empty, wins over the remote lookup; otherwise the value named
// SecretName is fetched once from the parameter store at StoreURL.
type SecretConfig struct {
	InlineSecret string
	SecretName   string
	StoreURL     string
	FetchTimeout time.Duration
}

type ExecConfig struct {
	// CallBudget bounds each downstream repository call. Must stay below
	// AppConfig.WriteTimeout so a timed-out call still produces a response.
	CallBudget time.Duration
}

type Config struct {
	AppConfig    *AppConfig
	DbConfig     *DbConfig
	SecretConfig *SecretConfig
	ExecConfig   *ExecConfig
}

func LoadConfig(logger *zap.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("failed to load .env file", zap.Error(err))
	}

	/** db config */
	dsn := os.Getenv("POSTGRES_DSN")

	mocs := os.Getenv("DB_MAX_OPEN_CONNS")
	mics := os.Getenv("DB_MAX_IDLE_CONNS")
	mcls := os.Getenv("DB_CONN_MAX_LIFETIME")

	maxOpenConns, err := strconv.Atoi(mocs)
	if err != nil {
		return nil, err
	}
	maxIdleConns, err := strconv.Atoi(mics)
	if err != nil {
		return nil, err
	}
	maxConnLifetimeDuration, err := time.ParseDuration(mcls)
	if err != nil {
		return nil, err
	}

	dbConfig := &DbConfig{
		DSN:             dsn,
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		MaxConnLifetime: maxConnLifetimeDuration,
	}

	/** app config */
	port := os.Getenv("APP_PORT")

	rts := os.Getenv("APP_READ_TIMEOUT")
	wts := os.Getenv("APP_WRITE_TIMEOUT")
	its := os.Getenv("APP_IDLE_TIMEOUT")
	rls := os.Getenv("APP_RATE_LIMIT")

	readTimeoutDuration, err := time.ParseDuration(rts)
	if err != nil {
		return nil, err
	}
	writeTimeoutDuration, err := time.ParseDuration(wts)
	if err != nil {
		return nil, err
	}
	idleTimeoutDuration, err := time.ParseDuration(its)
	if err != nil {
		return nil, err
	}
	rateLimit, err := strconv.Atoi(rls)
	if err != nil {
		return nil, err
	}

	appConfig := &AppConfig{
		Port:         port,
		ReadTimeout:  readTimeoutDuration,
		WriteTimeout: writeTimeoutDuration,
		IdleTimeout:  idleTimeoutDuration,
		RateLimit:    rateLimit,
	}

	/** secret config */
	fts := os.Getenv("SECRET_FETCH_TIMEOUT")
	fetchTimeout := 5 * time.Second
	if fts != "" {
		fetchTimeout, err = time.ParseDuration(fts)
		if err != nil {
			return nil, err
		}
	}
	secretConfig := &SecretConfig{
		InlineSecret: os.Getenv("JWT_SECRET"),
		SecretName:   os.Getenv("JWT_SECRET_NAME"),
		StoreURL:     os.Getenv("SECRET_STORE_URL"),
		FetchTimeout: fetchTimeout,
	}

	/** executor config */
	cbs := os.Getenv("EXEC_CALL_BUDGET")
	callBudget := 25 * time.Second
	if cbs != "" {
		callBudget, err = time.ParseDuration(cbs)
		if err != nil {
			return nil, err
		}
	}
	execConfig := &ExecConfig{
		CallBudget: callBudget,
	}

	return &Config{
		DbConfig:     dbConfig,
		AppConfig:    appConfig,
		SecretConfig: secretConfig,
		ExecConfig:   execConfig,
	}, nil
}
