package common

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

// AttachFileLogger attaches, if required, a log file
func AttachFileLogger(
	log logger.Logger,
	defaultLogsPath string,
	logFilePrefix string,
	saveLogFile bool,
	workingDir string) (FileLoggingHandler, error) {
	var err error
	var logFile FileLoggingHandler
	if saveLogFile {
		argsFileLogging := file.ArgsFileLogging{
			WorkingDir:      workingDir,
			DefaultLogsPath: defaultLogsPath,
			LogFilePrefix:   logFilePrefix,
		}
		logFile, err = file.NewFileLogging(argsFileLogging)
		if err != nil {
			return nil, fmt.Errorf("%w creating a log file", err)
		}
	}

	err = logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)

	return logFile, nil
}

// ReadEnvFile reads the optional .env file and fills the provided map with the
// values found for its keys. A missing file is not an error and keys absent from
// the environment keep their current values.
func ReadEnvFile(envFile string, m map[string]string) error {
	_, err := os.Stat(envFile)
	if os.IsNotExist(err) {
		return nil
	}

	err = godotenv.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load env file '%s': %w", envFile, err)
	}

	for k := range m {
		val := os.Getenv(k)
		if len(val) > 0 {
			m[k] = val
		}
	}

	return nil
}

// RunPeriodically blocks and calls the provided handler once immediately and then
// on every elapsed interval, until the context is cancelled
func RunPeriodically(ctx context.Context, interval time.Duration, handler func(ctx context.Context)) {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	handler(ctx)

	for {
		select {
		case <-timer.C:
			handler(ctx)
			timer.Reset(interval)
		case <-ctx.Done():
			return
		}
	}
}
