// Package encoder turns free-text intent strings into fixed-size feature
// vectors for the intent classifier.
package encoder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/ppiankov/intentgate/internal/model"
)

// Names of the lexical statistics, in vector order.
const (
	StatLogWords      = "stat:log_words"
	StatMeanWordLen   = "stat:mean_word_len"
	StatUniqueRatio   = "stat:unique_ratio"
	StatAlphaRatio    = "stat:alpha_ratio"
	StatDigitRatio    = "stat:digit_ratio"
	StatLongWordRatio = "stat:long_word_ratio"
)

// statNames lists the statistic features in the order they are emitted.
var statNames = []string{
	StatLogWords,
	StatMeanWordLen,
	StatUniqueRatio,
	StatAlphaRatio,
	StatDigitRatio,
	StatLongWordRatio,
}

// NumStats is the number of lexical statistics at the head of every vector.
var NumStats = len(statNames)

// longWordLen is the rune length at which a token counts as a long word.
const longWordLen = 4

// FeatureVector is the encoded form of an intent string.
type FeatureVector []float64

// Equal reports whether two vectors hold identical values.
func (v FeatureVector) Equal(other FeatureVector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// Config describes the vocabulary part of the vector layout.
type Config struct {
	Vocabulary  []string `yaml:"vocabulary"`
	HashBuckets int      `yaml:"hash_buckets"`
}

// Encoder is an immutable text-to-vector mapping. Safe for concurrent use.
type Encoder struct {
	vocab   map[string]int
	buckets int
	names   []string
}

// New builds an Encoder. Vocabulary words are lowercased; duplicates keep
// their first position.
func New(cfg Config) *Encoder {
	e := &Encoder{
		vocab:   make(map[string]int, len(cfg.Vocabulary)),
		buckets: max(cfg.HashBuckets, 0),
	}

	e.names = append(e.names, statNames...)
	for _, w := range cfg.Vocabulary {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := e.vocab[w]; dup {
			continue
		}
		e.vocab[w] = len(e.names)
		e.names = append(e.names, "word:"+w)
	}
	for i := 0; i < e.buckets; i++ {
		e.names = append(e.names, "oov:"+strconv.Itoa(i))
	}
	return e
}

// Dim returns the length of every vector this encoder produces.
func (e *Encoder) Dim() int {
	return len(e.names)
}

// FeatureNames returns the name of each vector position.
func (e *Encoder) FeatureNames() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Index returns the vector position of a named feature.
func (e *Encoder) Index(name string) (int, bool) {
	for i, n := range e.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Encode converts text to its feature vector. The empty string yields the
// all-zero vector. Text that is not valid UTF-8 fails with model.ErrEncoding.
func (e *Encoder) Encode(text string) (FeatureVector, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: intent is not valid UTF-8", model.ErrEncoding)
	}

	v := make(FeatureVector, e.Dim())
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return v, nil
	}

	var (
		totalLen int
		long     int
		unique   = make(map[string]struct{}, len(tokens))
	)
	for _, tok := range tokens {
		n := utf8.RuneCountInString(tok)
		totalLen += n
		if n >= longWordLen {
			long++
		}
		unique[tok] = struct{}{}

		if idx, ok := e.vocab[tok]; ok {
			v[idx]++
			continue
		}
		if e.buckets > 0 {
			b := xxhash.Sum64String(tok) % uint64(e.buckets)
			v[NumStats+len(e.vocab)+int(b)]++
		}
	}

	var letters, digits, visible int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		visible++
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}

	count := float64(len(tokens))
	v[0] = math.Log1p(count)
	v[1] = float64(totalLen) / count / 10
	v[2] = float64(len(unique)) / count
	if visible > 0 {
		v[3] = float64(letters) / float64(visible)
		v[4] = float64(digits) / float64(visible)
	}
	v[5] = float64(long) / count
	return v, nil
}

// WordCount counts whitespace-separated words. Runs of whitespace count as
// one separator, so leading, trailing and doubled spaces add nothing.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Tokenize lowercases text, splits it on whitespace and trims punctuation
// and symbols from both ends of each word. Words that are only punctuation
// are dropped.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(strings.ToLower(f), func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
