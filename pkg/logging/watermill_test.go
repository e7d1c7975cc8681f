package logging_test

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joeydtaylor/steeze-worker/pkg/logging"
)

func TestNewWatermillAdapterRejectsNil(t *testing.T) {
	require.Panics(t, func() { logging.NewWatermillAdapter(nil) })
}

func TestAdapterForwardsToZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := logging.NewWatermillAdapter(zap.New(core))

	a.Info("consuming", watermill.LogFields{"topic": "jobs"})
	a.Error("publish failed", errors.New("conn reset"), nil)
	a.Debug("tick", nil)
	a.Trace("trace maps to debug", nil)

	require.Equal(t, 4, logs.Len())

	info := logs.FilterMessage("consuming").All()
	require.Len(t, info, 1)
	require.Equal(t, "jobs", info[0].ContextMap()["topic"])
}

func TestAdapterWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := logging.NewWatermillAdapter(zap.New(core)).With(watermill.LogFields{"worker": "w1"})

	a.Info("started", nil)

	entries := logs.FilterMessage("started").All()
	require.Len(t, entries, 1)
	require.Equal(t, "w1", entries[0].ContextMap()["worker"])
}
