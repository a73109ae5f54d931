package di

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BuyBio/internal/services/analysis"
	"BuyBio/internal/services/indicators"
	"BuyBio/pkg/config"
	"BuyBio/pkg/logger"
)

func TestProvideEngineLogsResolvedSettings(t *testing.T) {
	cfg := &config.Config{}
	cfg.Analysis.MinHistory = 30
	cfg.Analysis.IndicatorLibrary = indicators.LibrarySeeded

	lib, err := ProvideIndicatorLibrary(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	e := ProvideEngine(cfg, lib, logger.NewWithWriter(&buf, zerolog.InfoLevel))

	assert.Equal(t, analysis.DefaultMinHistory, e.MinHistory())
	assert.Equal(t, indicators.LibrarySeeded, e.Library().Name())
	assert.Contains(t, buf.String(), `"library":"seeded"`)
	assert.Contains(t, buf.String(), `"min_history":120`)
}

func TestProvideIndicatorLibraryRejectsUnknown(t *testing.T) {
	cfg := &config.Config{}
	cfg.Analysis.IndicatorLibrary = "talib"
	_, err := ProvideIndicatorLibrary(cfg)
	assert.Error(t, err)
}
