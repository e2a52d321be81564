package op

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Keys with a fixed meaning that operators may not be bound to.
const (
	KeyOpen     = "("
	KeyClose    = ")"
	KeyEquals   = "="
	KeyPoint    = "."
	KeyClear    = "CE"
	KeyClearAll = "AC"
	KeyDelete   = "DEL"
)

var Commands = []string{KeyClear, KeyClearAll, KeyDelete}

var (
	errorEmptyKey       = fmt.Errorf("empty key")
	errorReservedKey    = fmt.Errorf("key is reserved")
	errorUnknownName    = fmt.Errorf("no built-in operator with this name")
	errorNoClass        = fmt.Errorf("operator has no precedence class")
	errorDuplicateClass = fmt.Errorf("operator is in more than one precedence class")
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

// Vocabulary binds keys to built-in operators and groups operators into
// precedence classes, loosest first.
type Vocabulary struct {
	Precedence [][]string        `yaml:"precedence"`
	Keys       map[string]string `yaml:"keys"`
}

func DefaultVocabulary() Vocabulary {
	v, err := LoadVocabulary(bytes.NewReader(defaultVocabulary))
	if err != nil {
		panic(err)
	}
	return v
}

func LoadVocabulary(r io.Reader) (Vocabulary, error) {
	var v Vocabulary
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil {
		return Vocabulary{}, fmt.Errorf("decode vocabulary: %w", err)
	}
	if err := v.Validate(); err != nil {
		return Vocabulary{}, err
	}
	return v, nil
}

func (v Vocabulary) Validate() error {
	classOf := make(map[string]int)
	for i, class := range v.Precedence {
		for _, name := range class {
			if _, ok := ByName(name); !ok {
				return fmt.Errorf("precedence %q: %w", name, errorUnknownName)
			}
			if _, seen := classOf[name]; seen {
				return fmt.Errorf("precedence %q: %w", name, errorDuplicateClass)
			}
			classOf[name] = i
		}
	}
	for key, name := range v.Keys {
		if err := checkKey(key); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		if _, ok := ByName(name); !ok {
			return fmt.Errorf("key %q -> %q: %w", key, name, errorUnknownName)
		}
		if _, ok := classOf[name]; !ok {
			return fmt.Errorf("key %q -> %q: %w", key, name, errorNoClass)
		}
	}
	return nil
}

func checkKey(key string) error {
	if key == "" {
		return errorEmptyKey
	}
	for _, c := range Commands {
		if key == c {
			return errorReservedKey
		}
	}
	for _, r := range key {
		if unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune("().=", r) {
			return errorReservedKey
		}
	}
	return nil
}
