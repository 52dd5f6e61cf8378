// Package cards turns a directory of frontmatter documents into a catalog of
// quiz items. A bad document never fails the batch; it becomes a Diagnostic.
package cards

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

var documentExts = []string{".md", ".mdx"}

// Builder reads quiz documents from a filesystem. It holds no state between
// calls; every Build re-reads the directory.
type Builder struct {
	fsys    fs.FS
	workers int
}

// Option configures a Builder.
type Option func(*Builder)

// WithWorkers bounds how many documents are processed concurrently.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewBuilder creates a Builder over the top level of fsys.
func NewBuilder(fsys fs.FS, opts ...Option) *Builder {
	b := &Builder{
		fsys:    fsys,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewDirBuilder creates a Builder for a content directory on disk.
func NewDirBuilder(dir string, opts ...Option) *Builder {
	return NewBuilder(os.DirFS(dir), opts...)
}

type outcome struct {
	item QuizItem
	err  error
}

// Build processes every document and returns the items sorted by ID along
// with a diagnostic for each rejected document. It only returns an error if
// the directory cannot be listed or ctx is cancelled.
func (b *Builder) Build(ctx context.Context) (Catalog, error) {
	entries, err := fs.ReadDir(b.fsys, ".")
	if err != nil {
		return Catalog{}, fmt.Errorf("listing content: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !isDocument(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}

	outcomes := make([]outcome, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, err := b.load(name)
			outcomes[i] = outcome{item: item, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Catalog{}, fmt.Errorf("building catalog: %w", err)
	}

	cat := Catalog{
		Items:       make([]QuizItem, 0, len(names)),
		Diagnostics: []Diagnostic{},
	}
	for i, o := range outcomes {
		if o.err != nil {
			slog.Warn("skipping invalid card", "file", names[i], "error", o.err)
			cat.Diagnostics = append(cat.Diagnostics, diagnose(names[i], o.err))
			continue
		}
		cat.Items = append(cat.Items, o.item)
	}

	slices.SortStableFunc(cat.Items, func(a, b QuizItem) int {
		return cmp.Compare(a.ID, b.ID)
	})

	slog.Info("catalog built", "items", len(cat.Items), "diagnostics", len(cat.Diagnostics))
	return cat, nil
}

func (b *Builder) load(name string) (QuizItem, error) {
	data, err := fs.ReadFile(b.fsys, name)
	if err != nil {
		return QuizItem{}, &ReadError{File: name, Err: err}
	}

	parsed, err := Extract(name, NormalizeFences(string(data)))
	if err != nil {
		return QuizItem{}, err
	}

	item, err := Validate(name, parsed)
	if err != nil {
		return QuizItem{}, err
	}

	html, err := Render(item.Body)
	if err != nil {
		return QuizItem{}, &RenderError{File: name, Err: err}
	}
	item.BodyHTML = html

	return item, nil
}

func isDocument(name string) bool {
	for _, ext := range documentExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
