package documents

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"hash"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"closebook/internal/logger"
)

// Default file names looked up under the data directory.
const (
	DefaultPriorJournalFile    = "2024.json"
	DefaultCurrentJournalFile  = "2025.json"
	DefaultCardFeedFile        = "신용카드_6.json"
	DefaultIncomeStatementFile = "손익계산서_24년_25년.json"
)

// Paths names the files of one pipeline run. Empty entries are skipped.
type Paths struct {
	PriorJournal    []string
	CurrentJournal  []string
	CardFeed        string
	IncomeStatement string
}

// DefaultPaths returns the conventional file layout under dir, which may
// be a local directory or a gs://bucket/prefix location.
func DefaultPaths(dir string) Paths {
	return Paths{
		PriorJournal:    []string{joinPath(dir, DefaultPriorJournalFile)},
		CurrentJournal:  []string{joinPath(dir, DefaultCurrentJournalFile)},
		CardFeed:        joinPath(dir, DefaultCardFeedFile),
		IncomeStatement: joinPath(dir, DefaultIncomeStatementFile),
	}
}

func joinPath(dir, name string) string {
	if rest, ok := strings.CutPrefix(dir, gcsScheme); ok {
		return gcsScheme + path.Join(rest, name)
	}
	return filepath.Join(dir, name)
}

// All returns every non-empty path in load order.
func (p Paths) All() []string {
	var all []string
	for _, group := range [][]string{p.PriorJournal, p.CurrentJournal, {p.CardFeed, p.IncomeStatement}} {
		for _, path := range group {
			if path != "" {
				all = append(all, path)
			}
		}
	}
	return all
}

// UsesGCS reports whether any path points at Cloud Storage.
func (p Paths) UsesGCS() bool {
	for _, path := range p.All() {
		if IsGCSPath(path) {
			return true
		}
	}
	return false
}

// Bundle holds the raw documents of one run. A nil slice means the
// document was absent.
type Bundle struct {
	PriorJournal    []Record
	CurrentJournal  []Record
	CardFeed        Feed
	IncomeStatement []Record

	// Fingerprint is the SHA-256 of every loaded file body in load order.
	Fingerprint string
}

// Source fetches a document body by path.
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

type fileSource struct{}

func (fileSource) Fetch(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader reads document files from disk or Cloud Storage.
type Loader struct {
	files Source
	gcs   Source
	log   zerolog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithGCS serves gs:// paths from src.
func WithGCS(src Source) LoaderOption {
	return func(l *Loader) {
		l.gcs = src
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		files: fileSource{},
		log:   logger.WithComponent("documents"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every file named in p. Missing or undecodable files are
// logged and treated as absent; Load itself never fails on them.
func (l *Loader) Load(p Paths) *Bundle {
	return l.LoadContext(context.Background(), p)
}

// LoadContext is Load with a context for remote sources.
func (l *Loader) LoadContext(ctx context.Context, p Paths) *Bundle {
	h := sha256.New()
	b := &Bundle{}

	for _, path := range p.PriorJournal {
		b.PriorJournal = append(b.PriorJournal, l.loadRecords(ctx, rolePriorJournal, path, h)...)
	}
	for _, path := range p.CurrentJournal {
		b.CurrentJournal = append(b.CurrentJournal, l.loadRecords(ctx, roleCurrentJournal, path, h)...)
	}
	b.CardFeed = l.loadRecords(ctx, roleCardFeed, p.CardFeed, h)
	b.IncomeStatement = l.loadRecords(ctx, roleIncomeStatement, p.IncomeStatement, h)
	b.Fingerprint = hex.EncodeToString(h.Sum(nil))

	l.log.Info().
		Int("prior_journal", len(b.PriorJournal)).
		Int("current_journal", len(b.CurrentJournal)).
		Int("card_feed", len(b.CardFeed)).
		Int("income_statement", len(b.IncomeStatement)).
		Str("fingerprint", b.Fingerprint).
		Msg("Documents loaded")

	return b
}

// Document roles tag each body in the fingerprint, so the same file in
// a different role hashes differently.
const (
	rolePriorJournal    = "prior_journal"
	roleCurrentJournal  = "current_journal"
	roleCardFeed        = "card_feed"
	roleIncomeStatement = "income_statement"
)

// writeDocument hashes role and a length prefix ahead of body so
// document boundaries cannot shift between files.
func writeDocument(h hash.Hash, role string, body []byte) {
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(len(body)))
	_, _ = h.Write([]byte(role))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(size[:])
	_, _ = h.Write(body)
}

func (l *Loader) loadRecords(ctx context.Context, role, path string, h hash.Hash) []Record {
	if path == "" {
		return nil
	}

	src := l.files
	if IsGCSPath(path) {
		if l.gcs == nil {
			l.log.Warn().Str("file", path).Msg("No Cloud Storage client configured, treating as absent")
			return nil
		}
		src = l.gcs
	}

	records, body, err := fetch(ctx, src, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.log.Warn().Str("file", path).Msg("Document not found, treating as absent")
		} else {
			l.log.Warn().Err(err).Str("file", path).Msg("Document could not be read, treating as absent")
		}
		return nil
	}
	writeDocument(h, role, body)
	return records
}

// ReadFile decodes a single document file. It returns the records and
// the raw body so callers can fingerprint what they read.
func ReadFile(path string) ([]Record, []byte, error) {
	return fetch(context.Background(), fileSource{}, path)
}

func fetch(ctx context.Context, src Source, path string) ([]Record, []byte, error) {
	const op = "ReadFile"

	body, err := src.Fetch(ctx, path)
	if err != nil {
		return nil, nil, &LoadError{Op: op, Path: path, Err: err}
	}

	feed, err := DecodeFeed(body)
	if err != nil {
		return nil, nil, &LoadError{Op: op, Path: path, Err: err}
	}
	return feed, body, nil
}
