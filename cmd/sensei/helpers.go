package main

import (
	"log/slog"

	"github.com/aretw0/sensei/internal/adapters/memory"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/aretw0/sensei/pkg/ports"
)

// localService builds the in-process service used when no remote service
// is configured.
func localService(catalog *lesson.Catalog, logger *slog.Logger) ports.LessonService {
	return memory.NewService(catalog, memory.WithLogger(logger))
}
