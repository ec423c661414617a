package logging

import (
	"log/slog"
	"os"
)

// Setup points the default slog logger at stdout as JSON. The Postgres
// sink is attached later in main, once the database is reachable.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
