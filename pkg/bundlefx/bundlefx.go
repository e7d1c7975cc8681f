// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-worker/pkg/logging"
	"github.com/joeydtaylor/steeze-worker/pkg/metrics"
	"go.uber.org/fx"
)

// Module bundles the ambient providers (logger, metrics handler) for apps
// that wire the worker coordinator by hand instead of using workerfx.Module.
var Module = fx.Options(
	logging.Module,
	metrics.Module,
)
