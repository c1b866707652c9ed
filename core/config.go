package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	// Config holds all process-wide configuration. It is built once at
	// startup and passed explicitly to every component that needs it.
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		AppName  string
		Build    string

		SecretKey          string
		JWTExpirationDelta time.Duration

		RollbarToken string

		Server ServerConfig
		Mongo  MongoConfig
		Minio  MinioConfig
	}

	ServerConfig struct {
		Host            string
		Port            int
		ShutdownTimeout time.Duration
	}

	MongoConfig struct {
		URI      string
		Database string
		Timeout  time.Duration
	}

	MinioConfig struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}
)

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewConfig loads configuration from defaults, an optional config/.env.<env>
// file and environment variables (prefixed with the current ENV).
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Kazi")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w#ye4-kazi)p0rt@l$+57=dz&uoxh2(h!x)#*c2(#yg4h^$dev")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("serverHost", "")
	v.SetDefault("serverPort", 8000)
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("mongoUri", "mongodb://localhost:27017")
	v.SetDefault("mongoDatabase", "kazi")
	v.SetDefault("mongoTimeout", 10*time.Second)
	v.SetDefault("minioEndpoint", "localhost:9000")
	v.SetDefault("minioAccessKey", "")
	v.SetDefault("minioSecretKey", "")
	v.SetDefault("minioBucket", "kazi-submissions")
	v.SetDefault("minioUseSsl", false)
	v.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:                env,
		Debug:              v.GetBool("debug"),
		TestMode:           env == "TEST",
		AppName:            v.GetString("appName"),
		Build:              v.GetString("build"),
		SecretKey:          v.GetString("secretKey"),
		JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		RollbarToken:       v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			Port:            v.GetInt("serverPort"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("mongoUri"),
			Database: v.GetString("mongoDatabase"),
			Timeout:  v.GetDuration("mongoTimeout"),
		},
		Minio: MinioConfig{
			Endpoint:  v.GetString("minioEndpoint"),
			AccessKey: v.GetString("minioAccessKey"),
			SecretKey: v.GetString("minioSecretKey"),
			Bucket:    v.GetString("minioBucket"),
			UseSSL:    v.GetBool("minioUseSsl"),
		},
	}
}
