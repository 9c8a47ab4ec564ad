package wordgen

import (
	"crypto/rand"
	"math/big"
)

// Source supplies uniformly distributed integers for weighted sampling.
// IntN must return a value in [0, n) for n > 0. A *math/rand/v2.Rand
// satisfies this interface directly; callers generating security-sensitive
// output should use CryptoSource instead.
//
// A Source is only required to be safe for concurrent use if it is shared
// between goroutines; per-goroutine Sources carry no such requirement.
type Source interface {
	IntN(n int) int
}

// CryptoSource is a Source backed by crypto/rand, suitable for password
// generation.
type CryptoSource struct{}

// IntN returns a uniform random value in [0, n). It panics if n <= 0 or if
// the platform's secure random source fails, which crypto/rand treats as an
// unrecoverable condition.
func (CryptoSource) IntN(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("wordgen: crypto/rand failure: " + err.Error())
	}
	return int(v.Int64())
}
