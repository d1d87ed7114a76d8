package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Channel loggers. They stay no-op until InitLoggers runs.
var (
	ErrorLogger   = zap.NewNop()
	AuditLogger   = zap.NewNop()
	RequestLogger = zap.NewNop()
	SystemLogger  = zap.NewNop()
)

func newLogger(ws zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		ws,
		level,
	)
	return zap.New(core)
}

func openSink(dir, channel string) (zapcore.WriteSyncer, error) {
	if dir == "" {
		return zapcore.Lock(os.Stdout), nil
	}
	file, err := os.OpenFile(filepath.Join(dir, channel+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(file), nil
}

// InitLoggers builds every channel. With an empty dir all channels share stdout,
// otherwise each one appends to <dir>/<channel>.log.
func InitLoggers(dir string) error {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	channels := []struct {
		name   string
		level  zapcore.Level
		target **zap.Logger
	}{
		{"errors", zapcore.ErrorLevel, &ErrorLogger},
		{"audit", zapcore.InfoLevel, &AuditLogger},
		{"request", zapcore.InfoLevel, &RequestLogger},
		{"system", zapcore.InfoLevel, &SystemLogger},
	}
	for _, ch := range channels {
		ws, err := openSink(dir, ch.name)
		if err != nil {
			return err
		}
		*ch.target = newLogger(ws, ch.level).With(zap.String("channel", ch.name))
	}
	return nil
}

func SyncLoggers() {
	_ = ErrorLogger.Sync()
	_ = AuditLogger.Sync()
	_ = RequestLogger.Sync()
	_ = SystemLogger.Sync()
}
