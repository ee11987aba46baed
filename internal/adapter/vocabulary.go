package adapter

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	m "mutok.dev/pkg/mutok/internal/model"
)

// ErrInvalidVocabulary is returned for malformed vocabulary files.
var ErrInvalidVocabulary = errors.New("invalid vocabulary")

// vocabularyFile is the on-disk layout. START takes index 0, the tokens
// follow in order, and END takes the last index.
type vocabularyFile struct {
	Start  string   `yaml:"start"`
	End    string   `yaml:"end"`
	Tokens []string `yaml:"tokens"`
}

// Vocabulary is a fixed, in-memory m.Vocabulary.
type Vocabulary struct {
	texts []string
}

var _ m.Vocabulary = (*Vocabulary)(nil)

// NewVocabulary builds a vocabulary from sentinel texts and content tokens.
func NewVocabulary(start, end string, tokens []string) (*Vocabulary, error) {
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: start and end sentinels are required", ErrInvalidVocabulary)
	}

	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens", ErrInvalidVocabulary)
	}

	size := len(tokens) + 2
	if size > m.MaxVocabularySize {
		return nil, fmt.Errorf("%w: %d entries exceed %d", ErrInvalidVocabulary, size, m.MaxVocabularySize)
	}

	texts := make([]string, 0, size)
	texts = append(texts, start)
	texts = append(texts, tokens...)
	texts = append(texts, end)

	return &Vocabulary{texts: texts}, nil
}

// ParseVocabulary decodes a YAML vocabulary document.
func ParseVocabulary(content []byte) (*Vocabulary, error) {
	var file vocabularyFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVocabulary, err)
	}

	return NewVocabulary(file.Start, file.End, file.Tokens)
}

// LoadVocabulary reads and parses a YAML vocabulary file.
func LoadVocabulary(path m.Path) (*Vocabulary, error) {
	content, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary %s: %w", path, err)
	}

	return ParseVocabulary(content)
}

// ToText implements m.Vocabulary. Out of range indices render as "<unk:N>".
func (v *Vocabulary) ToText(index m.TokenIndex) string {
	if int(index) >= len(v.texts) {
		return fmt.Sprintf("<unk:%d>", index)
	}

	return v.texts[index]
}

// StartIndex implements m.Vocabulary.
func (v *Vocabulary) StartIndex() m.TokenIndex {
	return 0
}

// EndIndex implements m.Vocabulary.
func (v *Vocabulary) EndIndex() m.TokenIndex {
	return m.TokenIndex(len(v.texts) - 1)
}

// Size implements m.Vocabulary.
func (v *Vocabulary) Size() int {
	return len(v.texts)
}
