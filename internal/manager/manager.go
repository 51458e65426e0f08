// Package manager keeps a collection of parsed workouts and fills it from
// files or directory trees.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/crimson-sun/workout/internal/model"
	"github.com/crimson-sun/workout/internal/parser"
)

// Manager parses workout files and holds the results in insertion order.
// It is not safe for concurrent use.
type Manager struct {
	cfg      parser.Config
	logger   *slog.Logger
	workouts []*model.Workout
}

// New creates an empty Manager. cfg is passed to every parser constructor.
func New(cfg parser.Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{cfg: cfg, logger: cfg.Logger}
}

// Add parses the file with the parser registered for its extension and
// appends the result to the collection.
func (m *Manager) Add(ctx context.Context, path string) (*model.Workout, error) {
	format, err := parser.Detect(path)
	if err != nil {
		return nil, err
	}
	ctor, err := parser.Get(format)
	if err != nil {
		return nil, err
	}
	w, err := ctor(m.cfg).Parse(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", path, err)
	}
	m.workouts = append(m.workouts, w)
	return w, nil
}

// Remove drops every workout parsed from path and returns how many were removed.
func (m *Manager) Remove(path string) int {
	kept := m.workouts[:0]
	for _, w := range m.workouts {
		if w.Path != path {
			kept = append(kept, w)
		}
	}
	removed := len(m.workouts) - len(kept)
	for i := len(kept); i < len(m.workouts); i++ {
		m.workouts[i] = nil
	}
	m.workouts = kept
	return removed
}

// Sort orders the collection by lower-cased file name.
func (m *Manager) Sort() {
	sort.SliceStable(m.workouts, func(i, j int) bool {
		return sortKey(m.workouts[i]) < sortKey(m.workouts[j])
	})
}

func sortKey(w *model.Workout) string {
	return strings.ToLower(filepath.Base(w.Path))
}

// Collection returns the workouts in their current order.
func (m *Manager) Collection() []*model.Workout {
	out := make([]*model.Workout, len(m.workouts))
	copy(out, m.workouts)
	return out
}

// Len returns the number of workouts held.
func (m *Manager) Len() int {
	return len(m.workouts)
}

// Run adds every file under dir. Files with an unknown extension are logged
// as warnings and files that fail to parse as errors; both are skipped.
// It returns the number of workouts added.
func (m *Manager) Run(ctx context.Context, dir string) (int, error) {
	paths, err := Collect(dir, "")
	if err != nil {
		return 0, err
	}

	added := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		if _, err := m.Add(ctx, path); err != nil {
			if errors.Is(err, parser.ErrUnknownFormat) {
				m.logger.Warn("skipping file with unknown ending", "path", path, "error", err)
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return added, ctxErr
			}
			m.logger.Error("failed to parse workout", "path", path, "error", err)
			continue
		}
		added++
	}
	m.logger.Info("workouts collected", "dir", dir, "files", len(paths), "added", added)
	return added, nil
}

// Collect returns the paths of all regular files under dir, recursively,
// whose names end with ending. An empty ending matches every file.
func Collect(dir, ending string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ending == "" || strings.HasSuffix(d.Name(), ending) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", dir, err)
	}
	return matches, nil
}
