// Package words supplies random word selections for building grids.
// Word lists are embedded in the binary, one file per language.
package words

import (
	"embed"
	"fmt"
	"io/fs"
	"math/rand"
	"strings"
)

//go:embed lists/*.txt
var listsFS embed.FS

// MaxCount is the largest selection a single pick may request.
const MaxCount = 400

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = "en"

// Picker selects random distinct words from a fixed pool.
type Picker struct {
	pool []string
}

// Load reads the embedded word list for the given language.
func Load(lang string) (*Picker, error) {
	name := strings.TrimSpace(strings.ToLower(lang))
	if name == "" {
		name = DefaultLanguage
	}

	data, err := fs.ReadFile(listsFS, "lists/"+name+".txt")
	if err != nil {
		return nil, fmt.Errorf("load word list %q: %w", name, err)
	}

	seen := make(map[string]bool)
	var pool []string
	for _, line := range strings.Split(string(data), "\n") {
		w := strings.TrimSpace(strings.ToLower(line))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		pool = append(pool, w)
	}

	if len(pool) < MaxCount {
		return nil, fmt.Errorf("word list %q has %d words, need at least %d", name, len(pool), MaxCount)
	}

	return &Picker{pool: pool}, nil
}

// PoolSize returns the number of distinct words available.
func (p *Picker) PoolSize() int {
	return len(p.pool)
}

// MaxCount returns the largest selection a single pick may request.
func (p *Picker) MaxCount() int {
	return MaxCount
}

// PickRandom returns count distinct words drawn uniformly from the pool.
func (p *Picker) PickRandom(count int) ([]string, error) {
	if count < 1 || count > MaxCount {
		return nil, fmt.Errorf("word count %d out of range [1, %d]", count, MaxCount)
	}

	// Partial Fisher-Yates over an index permutation: only the first count
	// positions need to be settled.
	idx := rand.Perm(len(p.pool))
	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = p.pool[idx[i]]
	}
	return out, nil
}
