package logging

import (
	"log/slog"

	"github.com/google/uuid"
)

// WithQuery creates a logger with query context.
// Use this to tag every log line emitted while planning and running one query.
//
// Example:
//
//	log := logging.WithQuery(uuid.New())
//	log.Info("plan built", "strategy", "unique")
func WithQuery(id uuid.UUID) *slog.Logger {
	return GetLogger().With("query_id", id.String())
}

// WithTable creates a logger with table context.
// Use this for row source and catalog operations.
//
// Example:
//
//	log := logging.WithTable("users")
//	log.Debug("opened table file", "path", path)
func WithTable(tableName string) *slog.Logger {
	return GetLogger().With("table", tableName)
}

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("planner")
//	log.Debug("predicates classified", "joins", 2)
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithError creates a logger with error context.
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
