package logx

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger. APP_ENV=dev switches to the colored
// development config; everything else logs production JSON to stdout.
func New(service string) *zap.Logger {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.With(zap.String("service", service))
}
