// pkg/logging/module.go
package logging

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func ProvideLogger() *zap.Logger { return NewLog("worker.log") }

var Module = fx.Options(
	fx.Provide(ProvideLogger),
)
