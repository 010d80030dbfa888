// Package keygen generates unique subscription keys.
//
// A key has the form
//
//	SG-<unix millis>-<counter>-<random suffix>
//
// The millisecond timestamp together with the counter makes keys unique for
// the life of the process. The counter cycles through a fixed seven-digit
// range; the random suffix only guards against a wrapped counter landing in
// the same millisecond as its earlier value.
package keygen

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Defaults for generated keys.
const (
	DefaultPrefix       = "SG-"
	DefaultSuffixLength = 25

	counterMin = 1000000
	counterMax = 9999999

	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghiklmnopqrstuvwxyz"
)

// Generator produces keys. The zero value is not usable; use New.
type Generator struct {
	mu      sync.Mutex
	counter int64

	prefix       string
	suffixLength int
	now          func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithPrefix sets the literal prefix of every key.
func WithPrefix(prefix string) Option {
	return func(g *Generator) {
		g.prefix = prefix
	}
}

// WithSuffixLength sets the number of random characters appended to a key.
// Zero disables the suffix.
func WithSuffixLength(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.suffixLength = n
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		counter:      counterMin - 1,
		prefix:       DefaultPrefix,
		suffixLength: DefaultSuffixLength,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns a new key.
func (g *Generator) Next() string {
	ms := g.now().UnixMilli()

	g.mu.Lock()
	g.counter++
	if g.counter > counterMax {
		g.counter = counterMin
	}
	n := g.counter
	g.mu.Unlock()

	var sb strings.Builder
	sb.Grow(len(g.prefix) + 32 + g.suffixLength)
	sb.WriteString(g.prefix)
	sb.WriteString(strconv.FormatInt(ms, 10))
	sb.WriteByte('-')
	sb.WriteString(strconv.FormatInt(n, 10))
	if g.suffixLength > 0 {
		sb.WriteByte('-')
		sb.WriteString(randomString(g.suffixLength))
	}
	return sb.String()
}

// randomString returns n characters drawn from alphabet.
func randomString(n int) string {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(alphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand failure; the counter still guarantees uniqueness
			b[i] = alphabet[mrand.IntN(len(alphabet))]
			continue
		}
		b[i] = alphabet[v.Int64()]
	}
	return string(b)
}
