package wordgen

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// ExportedModel is the serializable representation of a trained model, used
// for JSON-based import and export. Transitions map prefix -> next character
// -> frequency; the next-character keys are single-character strings.
type ExportedModel struct {
	Order       int                       `json:"order"`
	Words       []string                  `json:"words"`
	Transitions map[string]map[string]int `json:"transitions"`
}

// Export serializes the built model as indented JSON to w. This is useful
// for backups or for transferring models between machines without sharing a
// database.
func (m *Model) Export(w io.Writer) error {
	if m.table == nil {
		return ErrNoTrainingData
	}

	words := make([]string, 0, m.corpus.Len())
	for word := range m.corpus.words {
		words = append(words, word)
	}
	sort.Strings(words)

	transitions := make(map[string]map[string]int, len(m.table))
	for prefix, cs := range m.table {
		nexts := make(map[string]int, len(cs.choices))
		for _, c := range cs.choices {
			nexts[string(c.Char)] = c.Freq
		}
		transitions[prefix] = nexts
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportedModel{
		Order:       m.order,
		Words:       words,
		Transitions: transitions,
	})
}

// Import reads a JSON model representation from r and reconstructs a built
// Model. The transition table is taken as-is rather than rebuilt from the
// word list, so pruned exports round-trip exactly. Malformed input (order
// below 1, prefixes of the wrong width, non-positive frequencies, or
// multi-character continuations) is rejected.
func Import(r io.Reader) (*Model, error) {
	var exported ExportedModel
	if err := json.NewDecoder(r).Decode(&exported); err != nil {
		return nil, fmt.Errorf("failed to decode json model: %w", err)
	}

	corpus := &Corpus{words: make(map[string]struct{}, len(exported.Words))}
	for _, word := range exported.Words {
		if !isAlpha(word) {
			return nil, fmt.Errorf("invalid training word %q in imported model", word)
		}
		corpus.words[word] = struct{}{}
	}

	m, err := NewModel(corpus, exported.Order)
	if err != nil {
		return nil, err
	}

	table := make(map[string]*choiceSet, len(exported.Transitions))
	for prefix, nexts := range exported.Transitions {
		if len(prefix) != exported.Order {
			return nil, fmt.Errorf("prefix %q does not match model order %d", prefix, exported.Order)
		}
		cs := &choiceSet{choices: make([]CharFreq, 0, len(nexts))}
		for next, freq := range nexts {
			if len(next) != 1 {
				return nil, fmt.Errorf("invalid continuation %q for prefix %q", next, prefix)
			}
			if freq < 1 {
				return nil, fmt.Errorf("non-positive frequency %d for transition %q -> %q", freq, prefix, next)
			}
			cs.choices = append(cs.choices, CharFreq{Char: next[0], Freq: freq})
			cs.total += freq
		}
		sort.Slice(cs.choices, func(i, j int) bool {
			return cs.choices[i].Char < cs.choices[j].Char
		})
		table[prefix] = cs
	}
	m.table = table

	return m, nil
}
