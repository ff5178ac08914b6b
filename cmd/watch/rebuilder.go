package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/LegacyCodeHQ/stylegraph/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/stylegraph/cmd/walk"
	"github.com/LegacyCodeHQ/stylegraph/depgraph"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/resolve"
)

// rebuilder re-walks one entry and encodes the result for the viewer.
// Resolution outcomes are shared between walks through a session that is
// dropped whenever the file tree changes.
type rebuilder struct {
	setup     walk.Setup
	entry     string
	styleDeps bool
	session   *resolve.Session
	now       func() time.Time

	mu     sync.Mutex
	nextID int64
}

func newRebuilder(setup walk.Setup, entry string, styleDeps bool) (*rebuilder, error) {
	session, err := resolve.NewSession(0)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolution session: %w", err)
	}
	setup.Options.Session = session
	return &rebuilder{
		setup:     setup,
		entry:     entry,
		styleDeps: styleDeps,
		session:   session,
		now:       time.Now,
	}, nil
}

// rebuild invalidates cached resolutions when changed is set, walks the
// entry and returns the encoded snapshot.
func (r *rebuilder) rebuild(ctx context.Context, changed bool) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if changed {
		r.session.Invalidate()
	}

	result, err := r.setup.Walk(ctx, r.entry, r.styleDeps)
	if err != nil {
		return "", err
	}

	r.nextID++
	snapshot, err := r.snapshot(result)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(payload), nil
}

func (r *rebuilder) snapshot(result *depgraph.Result) (stylesSnapshot, error) {
	fileGraph, err := depgraph.NewFileDependencyGraph(result)
	if err != nil {
		return stylesSnapshot{}, fmt.Errorf("failed to build file graph metadata: %w", err)
	}

	display := r.setup.Resolver.Display
	snapshot := stylesSnapshot{
		ID:         r.nextID,
		Timestamp:  r.now().UTC(),
		Entry:      display(result.Entry),
		Styles:     make([]string, 0, len(result.Styles)),
		Unresolved: make([]unresolvedImport, 0, len(result.Unresolved)),
		Graph:      formatters.NewJSONGraph(fileGraph, formatters.RenderOptions{Root: r.setup.Root()}),
	}
	for _, style := range result.Styles {
		snapshot.Styles = append(snapshot.Styles, display(style))
	}
	for _, u := range result.Unresolved {
		snapshot.Unresolved = append(snapshot.Unresolved, unresolvedImport{
			Specifier: u.Specifier,
			Importer:  display(u.Importer),
		})
	}
	return snapshot, nil
}
