package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
)

// DefaultSubjects are the subjects shipped with the tutor.
var DefaultSubjects = []string{"coding", "math", "ielts", "physics"}

// Corpus file names tried in order inside each subject directory.
var corpusFiles = []string{"train_clean.json", "train_clean.jsonl"}

// Options configures an Index.
type Options struct {
	// MaxExamples caps examples kept per subject. Zero keeps all.
	MaxExamples int

	Vectors VectorConfig
	Log     *logger.Logger
}

// Index owns every subject's examples and derived vector space. Subjects
// load lazily on first access, exactly once, and are read-only afterwards,
// so concurrent readers need no locking.
type Index struct {
	dir      string
	opts     Options
	subjects map[string]*subjectEntry
}

type subjectEntry struct {
	once     sync.Once
	load     func() ([]Example, error)
	examples []Example
	vectors  *VectorSpace
	vecErr   error
}

// NewIndex creates an index over dir/<subject>/train_clean.json(l) for the
// given subjects. Nothing is read until a subject is first used.
func NewIndex(dir string, subjects []string, opts Options) *Index {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	ix := &Index{dir: dir, opts: opts, subjects: make(map[string]*subjectEntry, len(subjects))}
	for _, s := range subjects {
		key := normalizeSubject(s)
		ix.subjects[key] = &subjectEntry{load: func() ([]Example, error) { return ix.loadSubject(key) }}
	}
	return ix
}

// NewStaticIndex builds an index from examples already in memory.
func NewStaticIndex(examples map[string][]Example, opts Options) *Index {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	ix := &Index{opts: opts, subjects: make(map[string]*subjectEntry, len(examples))}
	for s, exs := range examples {
		ix.subjects[normalizeSubject(s)] = &subjectEntry{load: func() ([]Example, error) { return exs, nil }}
	}
	return ix
}

// Examples returns the subject's examples, or nil when the subject is
// unknown or has no corpus. The slice must not be modified.
func (ix *Index) Examples(subject string) []Example {
	e := ix.entry(subject)
	if e == nil {
		return nil
	}
	return e.examples
}

// Vectors returns the subject's TF-IDF space. An unknown or empty subject
// yields (nil, nil); a space that could not be built yields its error.
func (ix *Index) Vectors(subject string) (*VectorSpace, error) {
	e := ix.entry(subject)
	if e == nil || len(e.examples) == 0 {
		return nil, nil
	}
	return e.vectors, e.vecErr
}

// Subjects lists the configured subjects.
func (ix *Index) Subjects() []string {
	out := make([]string, 0, len(ix.subjects))
	for s := range ix.subjects {
		out = append(out, s)
	}
	return out
}

// Warm loads every subject concurrently. Loading failures are logged and
// leave the subject empty; only cancellation is returned.
func (ix *Index) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for s := range ix.subjects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ix.entry(s)
			return nil
		})
	}
	return g.Wait()
}

func (ix *Index) entry(subject string) *subjectEntry {
	e, ok := ix.subjects[normalizeSubject(subject)]
	if !ok {
		return nil
	}
	e.once.Do(func() {
		examples, err := e.load()
		if err != nil {
			ix.opts.Log.Warn("corpus load failed", "subject", subject, "error", err)
			return
		}
		if ix.opts.MaxExamples > 0 && len(examples) > ix.opts.MaxExamples {
			examples = examples[:ix.opts.MaxExamples]
		}
		e.examples = examples
		if len(examples) == 0 {
			return
		}

		docs := make([]string, len(examples))
		for i, ex := range examples {
			docs[i] = ex.Text()
		}
		e.vectors, e.vecErr = NewVectorSpace(docs, ix.opts.Vectors)
		if e.vecErr != nil {
			ix.opts.Log.Warn("vector space unavailable", "subject", subject, "error", e.vecErr)
		}
		ix.opts.Log.Info("corpus loaded", "subject", subject, "examples", len(examples))
	})
	return e
}

func (ix *Index) loadSubject(subject string) ([]Example, error) {
	for _, name := range corpusFiles {
		path := filepath.Join(ix.dir, subject, name)
		examples, err := ix.loadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return examples, err
	}
	return nil, nil
}

func (ix *Index) loadFile(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	examples, skipped, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if skipped > 0 {
		ix.opts.Log.Debug("skipped corpus records", "path", path, "skipped", skipped)
	}
	return examples, nil
}

func normalizeSubject(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
