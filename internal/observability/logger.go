package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

const (
	// LogFieldRunID is the field name for the run ID.
	LogFieldRunID = "run_id"
	// LogFieldStage is the field name for the pipeline stage.
	LogFieldStage = "stage"
	// LogFieldRowsIn is the field name for rows entering a stage.
	LogFieldRowsIn = "rows_in"
	// LogFieldRowsOut is the field name for rows leaving a stage.
	LogFieldRowsOut = "rows_out"
	// LogFieldRowsDropped is the field name for rows dropped by a stage.
	LogFieldRowsDropped = "rows_dropped"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
)

// RunContext carries structured logging state for a single pipeline run.
// Rows dropped by joins and filters are data loss by design, so stage
// counts are reported at info level, never as errors.
type RunContext struct {
	RunID     string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRunContext creates a run context with a generated run ID.
func NewRunContext(logger *slog.Logger) *RunContext {
	return &RunContext{
		RunID:     generateRunID(),
		StartTime: time.Now(),
		Logger:    logger,
	}
}

// NewLogger builds the default text logger for the process.
func NewLogger(dev bool) *slog.Logger {
	level := slog.LevelInfo
	if dev {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Info logs an info message.
func (r *RunContext) Info(msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(context.Background(), slog.LevelInfo, msg, r.baseAttrsAppended(attrs...)...)
}

// Debug logs a debug message.
func (r *RunContext) Debug(msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, r.baseAttrsAppended(attrs...)...)
}

// Warn logs a warning message.
func (r *RunContext) Warn(msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(context.Background(), slog.LevelWarn, msg, r.baseAttrsAppended(attrs...)...)
}

// Error logs an error message with the error.
func (r *RunContext) Error(msg string, err error, attrs ...slog.Attr) {
	allAttrs := append(attrs, slog.String("error", err.Error()))
	r.Logger.LogAttrs(context.Background(), slog.LevelError, msg, r.baseAttrsAppended(allAttrs...)...)
}

// StageDone reports the row counts of a completed stage.
func (r *RunContext) StageDone(stage string, start time.Time, rowsIn, rowsOut int) {
	r.Info("stage complete",
		slog.String(LogFieldStage, stage),
		slog.Int(LogFieldRowsIn, rowsIn),
		slog.Int(LogFieldRowsOut, rowsOut),
		slog.Int(LogFieldRowsDropped, rowsIn-rowsOut),
		slog.Int64(LogFieldDuration, time.Since(start).Milliseconds()),
	)
}

// Duration returns the elapsed time since the run started.
func (r *RunContext) Duration() time.Duration {
	return time.Since(r.StartTime)
}

// baseAttrs returns the base attributes.
func (r *RunContext) baseAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String(LogFieldRunID, r.RunID),
	}
}

// baseAttrsAppended combines the base attributes with additional attributes.
func (r *RunContext) baseAttrsAppended(attrs ...slog.Attr) []slog.Attr {
	return append(r.baseAttrs(), attrs...)
}

// generateRunID generates a unique run ID using full UUID.
func generateRunID() string {
	return uuid.New().String()
}
