// Package logging builds the process logger and loads .env files.
package logging

import (
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// EnvLevel is consulted when no level is passed explicitly.
const EnvLevel = "SPYGLASS_LOG_LEVEL"

// Setup returns a text logger at the given level. An empty level falls back
// to SPYGLASS_LOG_LEVEL, then info. Output goes to stderr so stdout stays
// free for the MCP stdio transport.
func Setup(level string) *logrus.Logger {
	return SetupTo(os.Stderr, level)
}

// SetupTo is Setup with an explicit writer.
func SetupTo(w io.Writer, level string) *logrus.Logger {
	logger := logrus.New()

	if level == "" {
		level = os.Getenv(EnvLevel)
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(w)
	return logger
}

// LoadEnv loads envFile into the process environment if it exists. Missing
// files are not an error; existing variables win over the file.
func LoadEnv(envFile string, logger *logrus.Logger) bool {
	if _, err := os.Stat(envFile); err != nil {
		logger.Debugf("No %s file found, using existing environment", envFile)
		return false
	}
	if err := godotenv.Load(envFile); err != nil {
		logger.Warningf("Error loading %s: %v", envFile, err)
		return false
	}
	logger.Debugf("Loaded environment from %s", envFile)
	return true
}
