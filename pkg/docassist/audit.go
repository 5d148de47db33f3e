package docassist

import (
	"context"
	"log/slog"
	"strings"
)

// AuditRecord is the per-turn audit event emitted after a turn
// commits. ActionsTaken and ToolsUsed cover only the committed turn,
// not the full session history.
type AuditRecord struct {
	ThreadID     string   `json:"thread_id"`
	RunID        string   `json:"run_id"`
	SessionID    string   `json:"session_id"`
	UserID       string   `json:"user_id"`
	Intent       string   `json:"intent"`
	Confidence   float64  `json:"confidence"`
	ActionsTaken []string `json:"actions_taken"`
	ToolsUsed    []string `json:"tools_used"`
}

// AuditSink receives audit records. Emission happens after the state
// commit; a sink must not fail the turn.
type AuditSink interface {
	Emit(ctx context.Context, rec AuditRecord)
}

// SlogAuditSink writes audit records as structured log entries.
type SlogAuditSink struct {
	Logger *slog.Logger
}

// Emit implements AuditSink.
func (s SlogAuditSink) Emit(_ context.Context, rec AuditRecord) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("turn audit",
		slog.String("thread_id", rec.ThreadID),
		slog.String("run_id", rec.RunID),
		slog.String("session_id", rec.SessionID),
		slog.String("user_id", rec.UserID),
		slog.String("intent", rec.Intent),
		slog.Float64("confidence", rec.Confidence),
		slog.String("actions_taken", strings.Join(rec.ActionsTaken, ",")),
		slog.String("tools_used", strings.Join(rec.ToolsUsed, ",")),
	)
}

// NoopAuditSink discards audit records.
type NoopAuditSink struct{}

// Emit implements AuditSink.
func (NoopAuditSink) Emit(context.Context, AuditRecord) {}
