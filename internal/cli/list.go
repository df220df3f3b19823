package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/sensei/internal/presentation/tui"
	"github.com/aretw0/sensei/pkg/ports"
)

// List prints the unlocked lessons grouped by level, lowest first.
// Lessons without a level end up under "other".
func List(ctx context.Context, svc ports.LessonService, modality string, out io.Writer) error {
	summaries, err := svc.UnlockedLessons(ctx, modality)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No lessons available.")
		return nil
	}

	groups := make(map[string][]ports.LessonSummary)
	for _, s := range summaries {
		level := s.Level
		if level == "" {
			level = "other"
		}
		groups[level] = append(groups[level], s)
	}

	levels := make([]string, 0, len(groups))
	for level := range groups {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	markdown := tui.NewMarkdown()
	for _, level := range levels {
		tui.PrintHeading(out, level)
		for _, s := range groups[level] {
			fmt.Fprintf(out, "  %s - %s\n", s.ID, strings.TrimSpace(markdown(s.Description)))
		}
	}
	return nil
}

// WarningSource is anything able to report service-side content warnings.
type WarningSource interface {
	Warnings(ctx context.Context) ([]string, error)
}

// ShowWarnings prints the service's content warnings, if any.
func ShowWarnings(ctx context.Context, src WarningSource, out io.Writer) {
	warnings, err := src.Warnings(ctx)
	if err != nil {
		return
	}
	for _, w := range warnings {
		tui.PrintWarning(out, w)
	}
}
