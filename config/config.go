package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config returns the value of an environment variable, loading .env first
// when one is present next to the binary.
func Config(key string) string {
	godotenv.Load(".env")
	return os.Getenv(key)
}
