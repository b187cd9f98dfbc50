package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultGatewayURL     = "https://shopify-backend-three.vercel.app"
	defaultGatewayTimeout = 10 * time.Second
)

type Console struct {
	Port           string
	GatewayURL     string
	GatewayToken   string
	GatewayTimeout time.Duration
	MetricsToken   string
}

type DevGateway struct {
	Port        string
	Token       string
	DatabaseURL string
}

// LoadEnv reads a .env file from the working directory when one exists.
// Variables already set in the process environment win.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func LoadConsole() Console {
	return Console{
		Port:           Getenv("PORT", "8090"),
		GatewayURL:     strings.TrimRight(Getenv("GATEWAY_URL", defaultGatewayURL), "/"),
		GatewayToken:   os.Getenv("GATEWAY_TOKEN"),
		GatewayTimeout: GetDuration("GATEWAY_TIMEOUT", defaultGatewayTimeout),
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	}
}

func LoadDevGateway() DevGateway {
	return DevGateway{
		Port:        Getenv("PORT", "8091"),
		Token:       Getenv("DEV_GATEWAY_TOKEN", "dev-token"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

func Getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func GetDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
