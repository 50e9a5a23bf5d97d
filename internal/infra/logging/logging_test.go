package infra_logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/humanbelnik/kinoreview/internal/config"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type LoggingSuite struct {
	suite.Suite
}

func (s *LoggingSuite) TestAutoFormatIsJSONOffTerminal(t provider.T) {
	t.Parallel()
	var buf bytes.Buffer

	logger, err := New(&buf, config.Log{Level: "info", Format: "auto"})
	assert.NoError(t, err)
	logger.Info("catalog served", slog.String("source", "local"))

	var line map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "catalog served", line["msg"])
	assert.Equal(t, "local", line["source"])
}

func (s *LoggingSuite) TestLevelFilters(t provider.T) {
	t.Parallel()
	var buf bytes.Buffer

	logger, err := New(&buf, config.Log{Level: "warn", Format: "text"})
	assert.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func (s *LoggingSuite) TestUnknownFormat(t provider.T) {
	t.Parallel()
	_, err := New(&bytes.Buffer{}, config.Log{Format: "xml"})
	assert.Error(t, err)
}

func TestLoggingSuite(t *testing.T) {
	suite.RunSuite(t, new(LoggingSuite))
}
