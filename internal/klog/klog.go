// Package klog configures the process-wide slog logger used by every
// subsystem of the simulated kernel.
package klog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Init sets up slog so records go both to the console and to logPath.
//
// Example:
//
//	func main() {
//		klog.Init("kernel.log", "INFO")
//	}
func Init(logPath string, logLevel string) error {
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)

	level, err := levelFromString(logLevel)

	handler := slog.NewTextHandler(multiWriter, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	if err != nil {
		slog.Warn(err.Error())
	}

	return nil
}

func levelFromString(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q, defaulting to INFO", levelStr)
	}
}
