package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	DatabaseURL        string
	Env                string
	LogLevel           string
	AdherenceThreshold float64
	TrendWindow        int
	RulesPath          string
	GenerateRatePerSec float64
	GenerateRateBurst  int
	SuggestDefaultTop  int
	JWTSecret          string
	AllowUserHeader    bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	// Header identity and the fallback JWT secret are only defaults outside
	// production-like environments.
	devLike := env == "dev" || env == "local"
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" && devLike {
		jwtSecret = "dev-secret"
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:        dbURL,
		Env:                env,
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AdherenceThreshold: getEnvFloat("FEEDBACK_ADHERENCE_THRESHOLD", 0.6),
		TrendWindow:        getEnvInt("FEEDBACK_TREND_WINDOW", 7),
		RulesPath:          getEnv("FEEDBACK_RULES_PATH", ""),
		GenerateRatePerSec: getEnvFloat("GENERATE_RATE_PER_SEC", 1),
		GenerateRateBurst:  getEnvInt("GENERATE_RATE_BURST", 5),
		SuggestDefaultTop:  getEnvInt("SUGGEST_DEFAULT_TOP", 3),
		JWTSecret:          jwtSecret,
		AllowUserHeader:    getEnvBool("AUTH_ALLOW_USER_HEADER", devLike),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config env %s invalid float: %v", key, err)
		return def
	}
	return val
}

func getEnvInt(key string, def int) int {
	if val, ok := LookupInt(key); ok {
		return val
	}
	return def
}

// LookupInt parses key as an int. Unset or invalid values report false;
// invalid ones are logged.
func LookupInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config env %s invalid int: %v", key, err)
		return 0, false
	}
	return val, true
}

// LookupDuration parses key with time.ParseDuration, like LookupInt.
func LookupDuration(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config env %s invalid duration: %v", key, err)
		return 0, false
	}
	return val, true
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config env %s invalid bool: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
