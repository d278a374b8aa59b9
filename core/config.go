package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		User          string
		Password      string
		Name          string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		SQLitePath    string
		PingAttempts  int
	}

	ServerConfig struct {
		Host               string
		Addr               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		DisableReqLogs     bool
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	TwilioConfig struct {
		AccountSID string
		AuthToken  string
		FromNumber string
	}

	AuthConfig struct {
		PasswordHasher    string // sha256 | bcrypt
		SeedAdminPassword string
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		AppName          string
		Build            string
		LogLevel         string
		SecretKey        string
		RollbarToken     string
		SendgridApiKey   string
		DefaultFromEmail string
		SMSChannel       string // console | twilio

		Auth     AuthConfig
		Database DatabaseConfig
		Redis    RedisConfig
		Server   ServerConfig
		Twilio   TwilioConfig
	}
)

func (conf DatabaseConfig) Address() string {
	return net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port))
}

// NewConfig reads the configuration from the environment.
// An optional `config/.env.<env>` file is loaded first when present.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	loadDotEnv(env)

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("appName", "College")
	v.SetDefault("build", "develop")
	v.SetDefault("logLevel", "info")
	v.SetDefault("secretKey", "7hz@x!u5k4(b+9w$r=f6pl&2d_c8q#e0s*mngya3tv)j1o")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("smsChannel", "twilio")
	v.SetDefault("passwordHasher", "sha256")
	v.SetDefault("seedAdminPassword", "admin123")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("debugHost", ":4000")
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbUser", "postgres")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbName", "college_management")
	v.SetDefault("dbAdminUser", "")
	v.SetDefault("dbAdminPassword", "")
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("dbSQLitePath", "college_management.db")
	v.SetDefault("dbPingAttempts", 5)
	v.SetDefault("redisDB", 0)

	// deployment-level names that predate the prefixed ones
	bind(v, "dbHost", "DB_HOST")
	bind(v, "dbPort", "DB_PORT")
	bind(v, "dbUser", "DB_USER")
	bind(v, "dbPassword", "DB_PASSWORD")
	bind(v, "dbName", "DB_NAME")
	bind(v, "dbAdminUser", "DB_ADMIN_USER")
	bind(v, "dbAdminPassword", "DB_ADMIN_PASSWORD")
	bind(v, "dbDisableTLS", "DB_DISABLE_TLS")
	bind(v, "dbSQLitePath", "DB_SQLITE_PATH")
	bind(v, "twilioAccountSID", "TWILIO_ACCOUNT_SID")
	bind(v, "twilioAuthToken", "TWILIO_AUTH_TOKEN")
	bind(v, "twilioFromNumber", "TWILIO_PHONE_NUMBER")
	bind(v, "redisAddr", "REDIS_ADDR")
	bind(v, "redisPassword", "REDIS_PASSWORD")
	bind(v, "redisDB", "REDIS_DB")
	bind(v, "secretKey", "SECRET_KEY")
	bind(v, "sendgridApiKey", "SENDGRID_API_KEY")
	bind(v, "rollbarToken", "ROLLBAR_TOKEN")
	bind(v, "logLevel", "LOG_LEVEL")
	bind(v, "smsChannel", "SMS_CHANNEL")
	bind(v, "passwordHasher", "PASSWORD_HASHER")

	v.SetEnvPrefix(env)
	v.AutomaticEnv()

	return &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		Env:              env,
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		LogLevel:         v.GetString("logLevel"),
		SecretKey:        v.GetString("secretKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SMSChannel:       v.GetString("smsChannel"),
		Auth: AuthConfig{
			PasswordHasher:    v.GetString("passwordHasher"),
			SeedAdminPassword: v.GetString("seedAdminPassword"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetInt("dbPort"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			Name:          v.GetString("dbName"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
			SQLitePath:    v.GetString("dbSQLitePath"),
			PingAttempts:  v.GetInt("dbPingAttempts"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redisAddr"),
			Password: v.GetString("redisPassword"),
			DB:       v.GetInt("redisDB"),
		},
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Addr:               v.GetString("serverAddr"),
			DebugHost:          v.GetString("debugHost"),
			ShutdownTimeout:    v.GetDuration("shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		},
		Twilio: TwilioConfig{
			AccountSID: v.GetString("twilioAccountSID"),
			AuthToken:  v.GetString("twilioAuthToken"),
			FromNumber: v.GetString("twilioFromNumber"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: debug mode, sqlite engine, no external channels.
func NewTestConfig() *Config {
	return &Config{
		Debug:            true,
		TestMode:         true,
		Env:              "TEST",
		AppName:          "College",
		Build:            "test",
		LogLevel:         "error",
		SecretKey:        "test-secret-key",
		DefaultFromEmail: "noreply@localhost",
		SMSChannel:       "console",
		Auth:             AuthConfig{PasswordHasher: "sha256", SeedAdminPassword: "admin123"},
		Database:         DatabaseConfig{Engine: "sqlite", SQLitePath: ":memory:", PingAttempts: 1},
		Server: ServerConfig{
			Host:               "localhost",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
			DisableReqLogs:     true,
		},
	}
}

func bind(v *viper.Viper, key, envName string) {
	_ = v.BindEnv(key, envName)
}

// loadDotEnv loads `config/.env.<env>` if it exists (ignored if it does not).
func loadDotEnv(env string) {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd(): %v", err)
	}
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
}
