package wordgen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrCorpusNotFound is returned by LoadCorpus when the word list file does
// not exist or cannot be opened.
var ErrCorpusNotFound = errors.New("wordgen: corpus not found")

// Corpus is a deduplicated set of lowercase alphabetic training words.
// It is immutable once returned by ReadCorpus and safe for concurrent reads.
type Corpus struct {
	words   map[string]struct{}
	dropped int
}

// LoadCorpus reads a newline-delimited word list from a file and returns the
// cleaned Corpus. A missing or unreadable file yields ErrCorpusNotFound.
func LoadCorpus(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCorpusNotFound, path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	return ReadCorpus(f)
}

// ReadCorpus reads one candidate word per line from r. Lines that are empty
// or contain anything other than ASCII letters are dropped; accepted lines
// are lower-cased and deduplicated. An input with no valid lines yields an
// empty (but valid) Corpus.
func ReadCorpus(r io.Reader) (*Corpus, error) {
	c := &Corpus{words: make(map[string]struct{})}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !isAlpha(line) {
			c.dropped++
			continue
		}
		c.words[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	return c, nil
}

// isAlpha reports whether s is non-empty and contains only ASCII letters.
func isAlpha(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') {
			return false
		}
	}
	return true
}

// Len returns the number of unique training words.
func (c *Corpus) Len() int {
	return len(c.words)
}

// Dropped returns the number of input lines rejected during loading.
func (c *Corpus) Dropped() int {
	return c.dropped
}

// Contains reports whether the exact string is a training word. Training
// words are stored lower-cased, so "Apple" is not contained even if "apple"
// is.
func (c *Corpus) Contains(word string) bool {
	_, ok := c.words[word]
	return ok
}
