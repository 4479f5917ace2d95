package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes JSON lines with datetime and caller information, and splits output to
// stdout and stderr based on level.
var Logger *zap.Logger

func init() {
	Logger = New(zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr))
}

// New builds a logger that sends errors and above to errs and everything else to out.
func New(out, errs zapcore.WriteSyncer) *zap.Logger {
	isErrorLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	isInfoLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl < zapcore.ErrorLevel
	})

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.RFC3339TimeEncoder
	encoder := zapcore.NewJSONEncoder(config)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, errs, isErrorLevel),
		zapcore.NewCore(encoder, out, isInfoLevel),
	)
	return zap.New(core, zap.AddCaller())
}

// Sugar returns the process logger tagged with the given component name.
func Sugar(component string) *zap.SugaredLogger {
	return Logger.With(zap.String("component", component)).Sugar()
}
