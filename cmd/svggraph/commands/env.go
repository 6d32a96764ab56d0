package commands

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Flag defaults can be overridden from the environment with SVGGRAPH_*
// variables. Malformed values are ignored.

// loadEnvFiles reads SVGGRAPH_ENV_FILE, or .env in the working directory,
// before any flag default is computed. Variables already set win.
func loadEnvFiles() {
	envfile := envString("SVGGRAPH_ENV_FILE", ".env")
	if err := godotenv.Load(envfile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Println("Error loading env file: ", envfile, err)
	}
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return def
}

func envInt(key string, def int64) int64 {
	if i, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return i
	}
	return def
}

func envBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}
