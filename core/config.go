package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	APIConfig struct {
		BaseURL string
		Timeout time.Duration // 0: no client-side timeout
	}

	StorageConfig struct {
		Dir string
	}

	SandboxConfig struct {
		Addr               string
		SecretKey          string
		JWTExpirationDelta time.Duration
		DatabaseURL        string
		LoginRate          float64 // attempts per second, per client IP
		LoginBurst         int
		Seed               bool
	}

	Config struct {
		AppName      string
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string

		API     APIConfig
		Storage StorageConfig
		Sandbox SandboxConfig
	}
)

// NewConfig reads the configuration from defaults, the optional `config/.env.<env>` file
// and the environment (prefixed with the uppercased ENV, eg. DEV_API_BASEURL).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Orquesta")
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("api.baseURL", "http://localhost:8000/api")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("storage.dir", defaultStorageDir())
	v.SetDefault("sandbox.addr", ":8000")
	v.SetDefault("sandbox.secretKey", "n3x$k1-orquesta-sandbox-4f9d!c0bquecura")
	v.SetDefault("sandbox.jwtExpirationDelta", 24*time.Hour)
	v.SetDefault("sandbox.databaseURL", "")
	v.SetDefault("sandbox.loginRate", 1.0)
	v.SetDefault("sandbox.loginBurst", 5)
	v.SetDefault("sandbox.seed", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

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
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.baseURL"), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Storage: StorageConfig{
			Dir: v.GetString("storage.dir"),
		},
		Sandbox: SandboxConfig{
			Addr:               v.GetString("sandbox.addr"),
			SecretKey:          v.GetString("sandbox.secretKey"),
			JWTExpirationDelta: v.GetDuration("sandbox.jwtExpirationDelta"),
			DatabaseURL:        v.GetString("sandbox.databaseURL"),
			LoginRate:          v.GetFloat64("sandbox.loginRate"),
			LoginBurst:         v.GetInt("sandbox.loginBurst"),
			Seed:               v.GetBool("sandbox.seed"),
		},
	}
}

func defaultStorageDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".orquesta")
	}
	return filepath.Join(dir, "orquesta")
}
