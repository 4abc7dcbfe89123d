package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Level  string
	Format string
	Writer io.Writer
}

// New builds a logrus logger. JSON is the default so CloudWatch can index fields.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()

	out := cfg.Writer
	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)
	logger.SetLevel(parseLevel(cfg.Level))

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// FromContext annotates the entry with the Lambda invocation, when there is one.
func FromContext(ctx context.Context, logger logrus.FieldLogger) *logrus.Entry {
	entry := logger.WithFields(logrus.Fields{})
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		entry = entry.WithField("aws_request_id", lc.AwsRequestID)
	}
	if name := lambdacontext.FunctionName; name != "" {
		entry = entry.WithField("function", name)
	}
	return entry
}
