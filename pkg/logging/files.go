// pkg/logging/files.go
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func ensureLogDir() string {
	dir := "log"
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// NewLog builds a JSON logger that tees to stdout and a rotated file under
// log/. The worker coordinator and the ops server share one of these.
func NewLog(n string) *zap.Logger {
	_ = ensureLogDir()

	cfg := zap.NewProductionEncoderConfig()

	console := zapcore.Lock(os.Stdout)

	var logPath string
	if runtime.GOOS == "windows" {
		logPath = filepath.Join("log", n)
	} else {
		logPath = fmt.Sprintf("%s/%s", "log", n)
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), console, zap.InfoLevel),
	)
	return zap.New(core)
}
