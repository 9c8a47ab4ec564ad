package wordgen

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// StartMarker is the sentinel character used to pad the beginning of each
// training word so its first characters have full-length context. It is
// outside the [a-z] alphabet and never appears in generated output.
const StartMarker = '^'

var (
	// ErrNoTrainingData is returned when a transition table is built or used
	// before a non-empty corpus has been attached.
	ErrNoTrainingData = errors.New("wordgen: corpus is empty or not loaded")
	// ErrExhaustedTransitions is returned when generation reaches a prefix
	// with no observed continuations. It usually means the order is too high
	// or the corpus too sparse for the requested length.
	ErrExhaustedTransitions = errors.New("wordgen: no transitions for prefix")
	// ErrGenerationExhausted is returned when every attempt of a bounded
	// retry loop produced a string that is already a training word.
	ErrGenerationExhausted = errors.New("wordgen: attempt limit reached without a non-dictionary word")
)

// CharFreq is one observed continuation for a prefix: a next character and
// the number of times it followed that prefix during training.
type CharFreq struct {
	Char byte
	Freq int
}

// choiceSet holds the continuations for a single prefix, sorted by Char, and
// the sum of their frequencies.
type choiceSet struct {
	choices []CharFreq
	total   int
}

// Model is an order-k character Markov model. A Model is created against a
// Corpus, built once with Build, and is immutable afterwards; a built Model
// is safe for concurrent generation as long as each caller supplies its own
// Source (or a Source that is itself safe for concurrent use). Changing the
// order or the corpus requires a new Model.
type Model struct {
	order  int
	corpus *Corpus
	table  map[string]*choiceSet
	logger *slog.Logger
}

// NewModel creates a Model of the given order over the corpus. The transition
// table is not built until Build is called.
func NewModel(corpus *Corpus, order int) (*Model, error) {
	if order < 1 {
		return nil, fmt.Errorf("wordgen: order must be at least 1, got %d", order)
	}
	return &Model{
		order:  order,
		corpus: corpus,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the Model. By default, all logs are discarded.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Order returns the model's order.
func (m *Model) Order() int {
	return m.order
}

// Corpus returns the training corpus the model was created with.
func (m *Model) Corpus() *Corpus {
	return m.corpus
}

// Built reports whether the transition table has been built.
func (m *Model) Built() bool {
	return m.table != nil
}

// Build derives the transition table from the corpus. Each training word is
// padded with order StartMarker characters, and a window of width order
// slides across it one character at a time, counting each (prefix, next
// character) observation. A word of length L contributes exactly L
// observations, so the whole pass is linear in the corpus size.
//
// Build fails with ErrNoTrainingData if the corpus is missing or empty.
func (m *Model) Build() error {
	if m.corpus == nil || m.corpus.Len() == 0 {
		return ErrNoTrainingData
	}

	counts := make(map[string]map[byte]int)
	pad := strings.Repeat(string(StartMarker), m.order)

	var observations int
	for word := range m.corpus.words {
		padded := pad + word
		for i := 0; i+m.order < len(padded); i++ {
			prefix := padded[i : i+m.order]
			next := padded[i+m.order]

			nexts, ok := counts[prefix]
			if !ok {
				nexts = make(map[byte]int)
				counts[prefix] = nexts
			}
			nexts[next]++
			observations++
		}
	}

	table := make(map[string]*choiceSet, len(counts))
	for prefix, nexts := range counts {
		cs := &choiceSet{choices: make([]CharFreq, 0, len(nexts))}
		for ch, freq := range nexts {
			cs.choices = append(cs.choices, CharFreq{Char: ch, Freq: freq})
			cs.total += freq
		}
		// Map iteration order is random; keep each choice set in a fixed
		// order so a recorded Source sequence reproduces the same output.
		sort.Slice(cs.choices, func(i, j int) bool {
			return cs.choices[i].Char < cs.choices[j].Char
		})
		table[prefix] = cs
	}
	m.table = table

	m.logger.Info("Transition table built",
		slog.Int("order", m.order),
		slog.Int("words", m.corpus.Len()),
		slog.Int("prefixes", len(table)),
		slog.Int("observations", observations),
	)

	return nil
}

// NextChars returns the observed continuations for a prefix and the sum of
// their frequencies. An unseen prefix returns nil and 0. The returned slice
// is shared with the model and must not be modified.
func (m *Model) NextChars(prefix string) ([]CharFreq, int) {
	cs, ok := m.table[prefix]
	if !ok {
		return nil, 0
	}
	return cs.choices, cs.total
}

// IsKnownWord reports whether the candidate is present in the training
// corpus. It is the membership check behind GenerateNonWord's rejection loop.
func (m *Model) IsKnownWord(candidate string) bool {
	return m.corpus != nil && m.corpus.Contains(candidate)
}

// Prune removes all transitions whose frequency is at or below minFreq,
// dropping prefixes that end up with no continuations. Pruning can introduce
// dead ends; generation surfaces those as ErrExhaustedTransitions rather
// than working around them. It returns the number of transitions removed.
//
// Prune mutates the table and must not run concurrently with generation.
func (m *Model) Prune(minFreq int) (int, error) {
	if m.table == nil {
		return 0, ErrNoTrainingData
	}

	var removed int
	for prefix, cs := range m.table {
		kept := cs.choices[:0]
		total := 0
		for _, c := range cs.choices {
			if c.Freq > minFreq {
				kept = append(kept, c)
				total += c.Freq
			} else {
				removed++
			}
		}
		if len(kept) == 0 {
			delete(m.table, prefix)
			continue
		}
		cs.choices = kept
		cs.total = total
	}

	m.logger.Info("Model pruned",
		slog.Int("min_frequency", minFreq),
		slog.Int("transitions_removed", removed),
		slog.Int("prefixes_remaining", len(m.table)),
	)

	return removed, nil
}
