package logger

import (
	"github.com/sirupsen/logrus"
	"github.com/yourusername/convergence/internal/models"
)

// AuditLogger provides dedicated audit trail logging for pick lifecycle
// events.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPickGenerated logs a published pick with its full scoring context.
func (al *AuditLogger) LogPickGenerated(pick *models.Pick, profileVersion string) {
	al.WithFields(logrus.Fields{
		"pick_id":         pick.ID,
		"sport":           pick.Sport,
		"market":          pick.Market,
		"matchup":         pick.Matchup,
		"game_date":       pick.GameDate.Format("2006-01-02"),
		"side":            pick.Side,
		"line":            pick.Line,
		"score":           pick.Score,
		"tier":            pick.Tier,
		"profile_version": profileVersion,
	}).Info("Pick generated")
}

// LogPickRejected logs a candidate that failed the quality gates.
func (al *AuditLogger) LogPickRejected(sport models.Sport, market models.Market, matchup string, score int) {
	al.WithFields(logrus.Fields{
		"sport":   sport,
		"market":  market,
		"matchup": matchup,
		"score":   score,
	}).Debug("Pick rejected by quality gates")
}

// LogPickGraded logs a settled pick.
func (al *AuditLogger) LogPickGraded(pick *models.Pick) {
	al.WithFields(logrus.Fields{
		"pick_id": pick.ID,
		"matchup": pick.Matchup,
		"side":    pick.Side,
		"line":    pick.Line,
		"result":  pick.Result,
	}).Info("Pick graded")
}

// LogRunCompleted logs end-of-run telemetry.
func (al *AuditLogger) LogRunCompleted(telemetry models.RunTelemetry) {
	al.WithFields(logrus.Fields{
		"run_id":      telemetry.RunID,
		"sport":       telemetry.Sport,
		"date":        telemetry.Date.Format("2006-01-02"),
		"processed":   telemetry.Processed,
		"errored":     telemetry.Errored,
		"generated":   telemetry.Generated,
		"rejected":    telemetry.Rejected,
		"stale_lines": telemetry.StaleLines,
	}).Info("Generation run completed")
}
