// Package password assembles full passwords from model-generated sections,
// applying structural complexity rules (capitals, digits, delimiters) on top
// of the raw alphabetic strings produced by wordgen.
package password

import (
	"fmt"
	"strings"

	"github.com/CTAG07/passforge/pkg/wordgen"
)

// Policy describes the structure of an assembled password: how many sections
// to generate, how long each is, how sections are joined, and how many
// characters per section are replaced by capitals and digits.
type Policy struct {
	Sections           int
	SectionLength      int
	Delimiter          string
	CapitalsPerSection int
	DigitsPerSection   int
	// MaxAttempts bounds the per-section retry loop that rejects sections
	// which came out as real dictionary words.
	MaxAttempts int
}

// DefaultPolicy returns the standard three-section policy.
func DefaultPolicy() Policy {
	return Policy{
		Sections:           3,
		SectionLength:      6,
		Delimiter:          "-",
		CapitalsPerSection: 1,
		DigitsPerSection:   1,
		MaxAttempts:        10,
	}
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	if p.Sections < 1 {
		return fmt.Errorf("password: sections must be at least 1, got %d", p.Sections)
	}
	if p.SectionLength < 1 {
		return fmt.Errorf("password: section length must be at least 1, got %d", p.SectionLength)
	}
	if p.CapitalsPerSection < 0 || p.DigitsPerSection < 0 {
		return fmt.Errorf("password: capitals and digits per section must not be negative")
	}
	if p.CapitalsPerSection+p.DigitsPerSection > p.SectionLength {
		return fmt.Errorf("password: %d capitals + %d digits do not fit in a section of length %d",
			p.CapitalsPerSection, p.DigitsPerSection, p.SectionLength)
	}
	if p.MaxAttempts < 1 {
		return fmt.Errorf("password: max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	return nil
}

// Build assembles a password from the model according to the policy. Each
// section is generated with the model's bounded non-dictionary retry loop
// and then has capitals and digits injected at positions drawn from src.
// Errors from generation (including wordgen.ErrGenerationExhausted) are
// returned with the failing section identified.
func Build(m *wordgen.Model, p Policy, src wordgen.Source) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	sections := make([]string, 0, p.Sections)
	for i := 0; i < p.Sections; i++ {
		word, err := m.GenerateNonWord(p.SectionLength, p.MaxAttempts, src)
		if err != nil {
			return "", fmt.Errorf("section %d: %w", i+1, err)
		}
		sections = append(sections, applyComplexity(word, p, src))
	}

	return strings.Join(sections, p.Delimiter), nil
}

// applyComplexity upper-cases then overwrites characters at random positions.
// Positions may collide, in which case a digit can replace a capital; the
// policy counts are injection attempts, matching the structural rules the
// sections are meant to satisfy on average rather than exact quotas.
func applyComplexity(word string, p Policy, src wordgen.Source) string {
	b := []byte(word)

	for i := 0; i < p.CapitalsPerSection; i++ {
		idx := src.IntN(len(b))
		if b[idx] >= 'a' && b[idx] <= 'z' {
			b[idx] -= 'a' - 'A'
		}
	}

	for i := 0; i < p.DigitsPerSection; i++ {
		idx := src.IntN(len(b))
		b[idx] = '0' + byte(src.IntN(10))
	}

	return string(b)
}
