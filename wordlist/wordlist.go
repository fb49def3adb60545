package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
)

var ErrEmptyList = errors.New("empty-word-list")

//go:embed words.txt
var defaultWords string

// List serves random words from an in-memory list.
type List struct {
	words []string
	mu    sync.Mutex
	rng   *rand.Rand
}

func New(words []string) *List {
	return &List{
		words: words,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Default returns the list compiled into the binary.
func Default() *List {
	words, err := Parse(strings.NewReader(defaultWords))
	if err != nil {
		panic(err)
	}
	return New(words)
}

func FromFile(path string) (*List, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer file.Close()

	words, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return New(words), nil
}

// Parse reads one word per line. Blank lines, lines starting with # and
// repeated words are skipped.
func Parse(r io.Reader) ([]string, error) {
	var words []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		key := strings.ToLower(word)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmptyList
	}
	return words, nil
}

// Generate implements game.RandomWordsGenerator. It returns up to count
// distinct words.
func (l *List) Generate(count int) []string {
	if count > len(l.words) {
		count = len(l.words)
	}
	if count <= 0 {
		return []string{}
	}

	l.mu.Lock()
	perm := l.rng.Perm(len(l.words))
	l.mu.Unlock()

	out := make([]string, count)
	for i := range out {
		out[i] = l.words[perm[i]]
	}
	return out
}

func (l *List) Words() []string {
	words := make([]string, len(l.words))
	copy(words, l.words)
	return words
}

func (l *List) Len() int {
	return len(l.words)
}
