package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/convergence/internal/models"
)

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("nonsense", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	log := NewLogger("info", "production")
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)

	log = NewLogger("info", "development")
	_, ok = log.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}

func TestAuditLoggerPickGenerated(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	audit := NewAuditLogger(base)
	pick := &models.Pick{
		ID:       uuid.New(),
		Sport:    models.SportNBA,
		Market:   models.MarketSpread,
		Matchup:  "Knicks @ Celtics",
		GameDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Side:     models.DirectionHome,
		Line:     -5.5,
		Score:    87,
		Tier:     models.Tier5,
	}
	audit.LogPickGenerated(pick, "2024.2")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["component"])
	assert.Equal(t, "Knicks @ Celtics", entry["matchup"])
	assert.Equal(t, float64(87), entry["score"])
	assert.Equal(t, "2024.2", entry["profile_version"])
}
