// internal/app/system/auditlog/auditlog.go

// Package auditlog records who triggered pairing regeneration and
// maintenance runs. Events go to MongoDB, structured logs, both, or
// nowhere, depending on configuration.
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/coachhub/internal/app/store/audit"
	"github.com/dalemusser/coachhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config controls where admin-action events are written.
// Values: "all" (MongoDB + zap), "db", "log", "off".
type Config struct {
	Admin string
}

// Logger writes audit events. A nil *Logger is a no-op, so handlers never
// have to check.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates an audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.GroupID != nil {
		fields = append(fields, zap.String("group_id", event.GroupID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an event per the configured destination.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.config.Admin
	if setting == "off" {
		return
	}
	if setting == "" {
		setting = "all"
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

// PairingsRegenerated logs a coach or admin regenerating a group's weekly
// pairings by hand.
func (l *Logger) PairingsRegenerated(ctx context.Context, r *http.Request, actorID, groupID primitive.ObjectID, actorRole string, forced, success bool, failureReason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventPairingsRegenerated,
		ActorID:       &actorID,
		GroupID:       &groupID,
		IP:            ratelimit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       success,
		FailureReason: failureReason,
		Details: map[string]string{
			"actor_role": actorRole,
			"forced":     boolToString(forced),
		},
	})
}

// MaintenanceRun logs an admin triggering the weekly fan-out by hand.
func (l *Logger) MaintenanceRun(ctx context.Context, r *http.Request, actorID primitive.ObjectID, runID string, generated, total int, success bool, failureReason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventMaintenanceRun,
		ActorID:       &actorID,
		IP:            ratelimit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       success,
		FailureReason: failureReason,
		Details: map[string]string{
			"run_id":    runID,
			"generated": intToString(generated),
			"total":     intToString(total),
		},
	})
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func intToString(i int) string {
	return strconv.Itoa(i)
}
