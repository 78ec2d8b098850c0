package log

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// New builds the service logger. The local environment logs at debug level.
func New(env string) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionConfig()
	encoderConfig.Level.SetLevel(zapcore.InfoLevel)
	if env == "local" {
		encoderConfig.Level.SetLevel(zapcore.DebugLevel)
	}
	encoderConfig.EncoderConfig.TimeKey = "timestamp"
	encoderConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339Nano)

	zapLogger, err := encoderConfig.Build()
	if err != nil {
		return nil, err
	}

	return zapLogger.With(zap.String("app", "needs-board")), nil
}

// Init replaces the package logger returned by Logger.
func Init(env string) error {
	l, err := New(env)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func Logger() *zap.Logger {
	return logger
}
