package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads dotenv files for local development. godotenv never
// overwrites variables that are already set, so precedence is: OS env,
// then .env.local, then .env.<APP_ENV>, then .env. Returns the files that
// were actually loaded.
func LoadDotEnv() []string {
	candidates := []string{".env.local"}
	if env := os.Getenv("APP_ENV"); env != "" {
		candidates = append(candidates, ".env."+env)
	}
	candidates = append(candidates, ".env")

	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			continue
		}
		loaded = append(loaded, f)
	}
	return loaded
}
