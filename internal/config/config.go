package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultAddr      = ":8080"
	defaultStorePath = "quickcart.db"
	defaultTaxRate   = 0.08
)

type Config struct {
	Addr        string
	DatabaseURL string
	StorePath   string
	JWTSecret   string
	KafkaAddr   string
	ESURL       string
	ESUser      string
	ESPassword  string
	CatalogPath string
	LogLevel    string
	TaxRate     float64
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func getDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		Addr:        getDefault("ADDR", defaultAddr),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StorePath:   getDefault("STORE_PATH", defaultStorePath),
		JWTSecret:   must(os.Getenv("JWT_SECRET"), "JWT_SECRET"),
		KafkaAddr:   os.Getenv("KAFKA_ADDRESS"),
		ESURL:       os.Getenv("ES_URL"),
		ESUser:      os.Getenv("ES_USER"),
		ESPassword:  os.Getenv("ES_PASSWORD"),
		CatalogPath: os.Getenv("CATALOG_PATH"),
		LogLevel:    getDefault("LOG_LEVEL", "info"),
		TaxRate:     defaultTaxRate,
	}

	if v := os.Getenv("TAX_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			log.Fatalf("invalid TAX_RATE %q", v)
		}
		cfg.TaxRate = rate
	}

	return cfg
}
