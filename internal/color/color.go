package color

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxLength: longest color token accepted on the wire
const MaxLength = 50

var ErrInvalidColor = errors.New("invalid color")

// Generator: generates distributed colors for cursors and strokes
type Generator struct {
	counter int
	mu      sync.Mutex
}

func NewGenerator() *Generator {
	return &Generator{}
}

// Next: returns the next color in the golden ratio distribution sequence
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	const goldenRatio = 0.618033988749895
	hue := float64(g.counter) * goldenRatio
	hue = hue - float64(int(hue)) // Keep fractional part
	g.counter++

	return colorful.Hsl(hue*360, 0.85, 0.55).Hex()
}

// Normalize: returns the canonical form of a CSS-style color token.
// Hex colors come back as #rrggbb, everything else trimmed and lower-cased.
func Normalize(token string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	if len(t) > MaxLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidColor, MaxLength)
	}

	if strings.HasPrefix(t, "#") {
		c, err := colorful.Hex(t)
		if err != nil {
			return "", fmt.Errorf("%w: %q is not a hex color", ErrInvalidColor, token)
		}
		return c.Hex(), nil
	}

	if open := strings.IndexByte(t, '('); open != -1 {
		if !isFunctional(t, open) {
			return "", fmt.Errorf("%w: malformed %q", ErrInvalidColor, token)
		}
		return t, nil
	}

	if !namedColors[t] {
		return "", fmt.Errorf("%w: %q is not a named color", ErrInvalidColor, token)
	}
	return t, nil
}

// Valid: reports whether token is an acceptable color
func Valid(token string) bool {
	_, err := Normalize(token)
	return err == nil
}

var functions = map[string]bool{
	"rgb":  true,
	"rgba": true,
	"hsl":  true,
	"hsla": true,
}

// isFunctional: rgb(...) / hsl(...) forms with numeric arguments only
func isFunctional(t string, open int) bool {
	if !functions[t[:open]] || !strings.HasSuffix(t, ")") {
		return false
	}
	args := t[open+1 : len(t)-1]
	if strings.TrimSpace(args) == "" {
		return false
	}
	for _, r := range args {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == ',', r == '%', r == ' ', r == '/', r == '-':
		default:
			return false
		}
	}
	return true
}
