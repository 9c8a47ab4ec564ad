package wordgen

import "strings"

// ModelStats holds aggregated statistics for a built model.
type ModelStats struct {
	Words          int // The number of unique training words.
	Prefixes       int // The number of unique prefixes observed.
	Transitions    int // The number of unique prefix->next-character links.
	TotalFrequency int // The sum of all link frequencies; the total number of observations.
	StartingChars  int // The number of distinct characters that can begin a word.
}

// Stats returns a snapshot of statistics for the model. It fails with
// ErrNoTrainingData if the table has not been built.
func (m *Model) Stats() (ModelStats, error) {
	if m.table == nil {
		return ModelStats{}, ErrNoTrainingData
	}

	stats := ModelStats{
		Words:    m.corpus.Len(),
		Prefixes: len(m.table),
	}
	for _, cs := range m.table {
		stats.Transitions += len(cs.choices)
		stats.TotalFrequency += cs.total
	}

	// The all-marker prefix holds the characters a word can start with.
	if cs, ok := m.table[strings.Repeat(string(StartMarker), m.order)]; ok {
		stats.StartingChars = len(cs.choices)
	}

	return stats, nil
}
