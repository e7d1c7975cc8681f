// pkg/worker/runtime.go
package worker

import (
	"sync"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-worker/pkg/config"
	"github.com/joeydtaylor/steeze-worker/pkg/logging"
)

// The runtime install is process-wide state with no teardown: global logger
// replacement and stdlib log redirection. A guarded flag keeps a second
// configure cycle in the same process from repeating it.
var (
	runtimeMu        sync.Mutex
	runtimeInstalled bool
)

// InstallRuntime runs at most once per process; repeat calls are logged no-ops.
func InstallRuntime(rc config.RuntimeConfig, log *zap.Logger) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if runtimeInstalled {
		log.Debug("runtime already installed; skipping")
		return nil
	}

	global := log
	if rc.LogFile != "" {
		global = logging.NewLog(rc.LogFile)
	}
	zap.ReplaceGlobals(global)
	_ = zap.RedirectStdLog(global)

	runtimeInstalled = true
	log.Info("runtime installed", zap.String("log_file", rc.LogFile))
	return nil
}

// RuntimeInstalled reports whether the one-time install already ran.
func RuntimeInstalled() bool {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	return runtimeInstalled
}

// resetRuntime exists for tests; production code must never call it.
func resetRuntime() {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	runtimeInstalled = false
}
