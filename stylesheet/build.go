package stylesheet

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Builder concatenates compiled styles in the order given.
type Builder struct {
	Compilers Compilers
	// BannerRoot makes banner paths relative when they lie under it.
	BannerRoot string
	// Concurrency bounds parallel compilation. Output order never changes.
	Concurrency int
}

// Build compiles every path and joins the chunks, each prefixed with a
// "/* path */" banner. The first compiler error aborts the build.
func (b Builder) Build(ctx context.Context, paths []string) (string, error) {
	for _, path := range paths {
		if _, err := b.Compilers.For(path); err != nil {
			return "", err
		}
	}

	chunks := make([]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	limit := b.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			compiler, err := b.Compilers.For(path)
			if err != nil {
				return err
			}
			css, err := compiler(ctx, path)
			if err != nil {
				return err
			}
			chunks[i] = css
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, path := range paths {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("/* ")
		sb.WriteString(b.bannerPath(path))
		sb.WriteString(" */\n")
		sb.WriteString(chunks[i])
		if !strings.HasSuffix(chunks[i], "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func (b Builder) bannerPath(path string) string {
	if b.BannerRoot == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(b.BannerRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Build concatenates paths with compilers and no banner root.
func Build(ctx context.Context, paths []string, compilers Compilers) (string, error) {
	return Builder{Compilers: compilers}.Build(ctx, paths)
}
