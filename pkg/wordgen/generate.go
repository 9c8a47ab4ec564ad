package wordgen

import (
	"fmt"
	"log/slog"
)

// Generate synthesizes a string of exactly length lowercase characters by
// walking the transition table. The internal buffer starts as order
// StartMarker characters; at each step the last order characters form the
// lookup prefix, and one continuation is drawn from src with probability
// proportional to its observed frequency. The markers are stripped from the
// returned string.
//
// Generate fails with ErrNoTrainingData if the table has not been built, and
// with ErrExhaustedTransitions (naming the offending prefix) if a prefix has
// no observed continuations. The loop is bounded by length draws and always
// terminates.
func (m *Model) Generate(length int, src Source) (string, error) {
	if m.table == nil {
		return "", ErrNoTrainingData
	}
	if length < 1 {
		return "", fmt.Errorf("wordgen: length must be at least 1, got %d", length)
	}

	buf := make([]byte, m.order, m.order+length)
	for i := range buf {
		buf[i] = StartMarker
	}

	for len(buf) < m.order+length {
		prefix := string(buf[len(buf)-m.order:])

		cs, ok := m.table[prefix]
		if !ok {
			return "", fmt.Errorf("%w %q: decrease the order or use a larger word list", ErrExhaustedTransitions, prefix)
		}

		// Cumulative scan over the frequency weights.
		n := src.IntN(cs.total)
		for _, c := range cs.choices {
			n -= c.Freq
			if n < 0 {
				buf = append(buf, c.Char)
				break
			}
		}
	}

	return string(buf[m.order:]), nil
}

// GenerateNonWord calls Generate until the result is not a training word,
// giving up after maxAttempts tries with ErrGenerationExhausted. Any
// generation failure is returned immediately; only dictionary collisions are
// retried.
func (m *Model) GenerateNonWord(length, maxAttempts int, src Source) (string, error) {
	if maxAttempts < 1 {
		return "", fmt.Errorf("wordgen: maxAttempts must be at least 1, got %d", maxAttempts)
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		word, err := m.Generate(length, src)
		if err != nil {
			return "", err
		}
		if !m.IsKnownWord(word) {
			return word, nil
		}
		m.logger.Debug("Generated a dictionary word, retrying",
			slog.String("word", word),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
		)
	}

	return "", fmt.Errorf("%w after %d attempts", ErrGenerationExhausted, maxAttempts)
}
