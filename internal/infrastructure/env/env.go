package env

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvService reads settings from the process environment after loading
// .env and .env.$APP_ENV. Keys are looked up with the configured prefix.
type EnvService struct {
	prefix string
}

func NewEnvService(prefix string) *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	// godotenv.Load never overrides variables already set by the caller
	_ = godotenv.Load(".env")

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Overload(envFile); err != nil {
			log.Printf("Warning: could not load %s: %v", envFile, err)
		}
	}

	return &EnvService{prefix: prefix}
}

func (e *EnvService) key(k string) string {
	return e.prefix + k
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(e.key(key))
}

func (e *EnvService) Lookup(key string) (string, bool) {
	val, ok := os.LookupEnv(e.key(key))
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

func (e *EnvService) MustGet(key string) (string, error) {
	val := e.Get(key)
	if val == "" {
		return "", fmt.Errorf("ENV %s is missing", e.key(key))
	}
	return val, nil
}

func (e *EnvService) GetString(key, defaultValue string) string {
	if val, ok := e.Lookup(key); ok {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val, ok := e.Lookup(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val, ok := e.Lookup(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val, ok := e.Lookup(key)
	if !ok {
		return defaultValue
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
