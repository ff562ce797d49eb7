package main

import (
	"io"
	"log/slog"
)

// setupLogger initializes and returns a logger based on the environment provided.
// Every profile keeps the info level so retry and no-result diagnostics stay visible.
func setupLogger(env string, out io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{
				Level:       slog.LevelInfo,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{
				Level:       slog.LevelInfo,
				ReplaceAttr: dropTime,
			}),
		)

		log.Warn(
			"The env parameter was not specified or was invalid. Using production logging.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
