// Package logging provides a process-wide structured logger for ToyDBMS.
//
// The package wraps [log/slog] and exposes a single global logger instance
// that is initialized once and then retrieved via GetLogger. All subsystems
// obtain a logger through this package so that log level and output
// destination are controlled from a single place.
//
// # Initialisation
//
// Call Init once at program startup and Close before exit:
//
//	if err := logging.Init(logging.Config{Level: logging.LevelDebug, Format: "json"}); err != nil {
//	    log.Fatal(err)
//	}
//
// Without Init, GetLogger falls back to WARN-level text logs on stderr so
// that query output on stdout stays clean.
//
// # Context helpers
//
//	log := logging.WithQuery(id)       // adds query_id field
//	log := logging.WithTable(name)     // adds table field
//	log := logging.WithComponent(name) // adds component field
package logging
