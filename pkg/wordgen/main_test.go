package wordgen

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// seqSource replays a recorded sequence of draws, reducing each value into
// the requested range. It makes generation fully reproducible in tests.
type seqSource struct {
	vals []int
	pos  int
}

func (s *seqSource) IntN(n int) int {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.pos%len(s.vals)]
	s.pos++
	return v % n
}

// testCorpus builds a Corpus from the given lines.
func testCorpus(t *testing.T, lines ...string) *Corpus {
	t.Helper()
	c, err := ReadCorpus(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("ReadCorpus() failed: %v", err)
	}
	return c
}

// testModel builds a ready-to-generate model over the given words.
func testModel(t *testing.T, order int, words ...string) *Model {
	t.Helper()
	m, err := NewModel(testCorpus(t, words...), order)
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	if err := m.Build(); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return m
}

// setupTestStore creates a new SQLite database and a Store for testing.
// It uses t.Cleanup to ensure resources are released.
func setupTestStore(t *testing.T) (context.Context, *sql.DB, *Store) {
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbFile+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(s.Close)

	return context.Background(), db, s
}

// benchmarkCorpus synthesizes a deterministic word list large enough for
// meaningful build/generate benchmarks.
func benchmarkCorpus(b *testing.B) *Corpus {
	b.Helper()
	syllables := []string{"ba", "ne", "ri", "to", "lu", "sha", "gen", "mor"}
	var sb strings.Builder
	for _, s1 := range syllables {
		for _, s2 := range syllables {
			for _, s3 := range syllables {
				sb.WriteString(s1 + s2 + s3 + "\n")
			}
		}
	}
	c, err := ReadCorpus(strings.NewReader(sb.String()))
	if err != nil {
		b.Fatalf("ReadCorpus() failed: %v", err)
	}
	return c
}
