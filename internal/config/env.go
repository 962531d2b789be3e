package config

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads the first existing .env file. Variables already present
// in the process environment win.
func loadEnvFile() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return errors.ConfigError("failed to load env file").WithCause(err).
				WithContext("path", name).
				Build()
		}
		return nil
	}
	return nil
}
