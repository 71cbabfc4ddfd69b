// Package ucd parses IVOA Unified Content Descriptors and optionally checks
// them against the UCD1+ controlled vocabulary.
package ucd

import (
	"fmt"
	"strings"
)

// DefaultNamespace is the namespace of the controlled vocabulary. Words in
// any other namespace are accepted without a vocabulary check.
const DefaultNamespace = "ivoa"

// Error describes a rejected UCD.
type Error struct {
	Input  string
	Word   string
	Reason string
}

func (e *Error) Error() string {
	if e.Word == "" {
		return fmt.Sprintf("ucd: %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("ucd: %q: word %q %s", e.Input, e.Word, e.Reason)
}

// Word is one atom of a UCD.
type Word struct {
	Namespace string
	Name      string
}

func (w Word) String() string {
	if w.Namespace == "" || w.Namespace == DefaultNamespace {
		return w.Name
	}
	return w.Namespace + ":" + w.Name
}

// UCD is a parsed descriptor: a primary word followed by secondary words.
type UCD []Word

func (u UCD) String() string {
	parts := make([]string, len(u))
	for i, word := range u {
		parts[i] = word.String()
	}
	return strings.Join(parts, ";")
}

// Parse splits s into words and checks their syntax. When checkVocabulary is
// set every ivoa word must be in the controlled vocabulary, the first word
// must be usable as a primary word and the rest as secondary words.
func Parse(s string, checkVocabulary bool) (UCD, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &Error{Input: s, Reason: "is empty"}
	}
	parts := strings.Split(s, ";")
	out := make(UCD, 0, len(parts))
	for i, part := range parts {
		word, err := parseWord(s, strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if checkVocabulary && word.Namespace == DefaultNamespace {
			if err := checkWord(s, word.Name, i == 0); err != nil {
				return nil, err
			}
		}
		out = append(out, word)
	}
	return out, nil
}

// Validate parses s with vocabulary checking.
func Validate(s string) error {
	_, err := Parse(s, true)
	return err
}

// ValidateSyntax parses s without vocabulary checking.
func ValidateSyntax(s string) error {
	_, err := Parse(s, false)
	return err
}

func parseWord(input, text string) (Word, error) {
	if text == "" {
		return Word{}, &Error{Input: input, Reason: "contains an empty word"}
	}
	word := Word{Namespace: DefaultNamespace, Name: text}
	if ns, name, ok := strings.Cut(text, ":"); ok {
		if ns == "" || !isNamespace(ns) {
			return Word{}, &Error{Input: input, Word: text, Reason: "has an invalid namespace"}
		}
		word = Word{Namespace: strings.ToLower(ns), Name: name}
	}
	if word.Name == "" || !isAtomChain(word.Name) {
		return Word{}, &Error{Input: input, Word: text, Reason: "is not a valid UCD word"}
	}
	return word, nil
}

func checkWord(input, name string, first bool) error {
	flag, ok := Lookup(name)
	if !ok {
		return &Error{Input: input, Word: name, Reason: "is not in the controlled vocabulary"}
	}
	if first && !flag.Primary() {
		return &Error{Input: input, Word: name, Reason: "is not valid as a primary word"}
	}
	if !first && !flag.Secondary() {
		return &Error{Input: input, Word: name, Reason: "is not valid as a secondary word"}
	}
	return nil
}

func isNamespace(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// isAtomChain accepts atom(.atom)* where atoms hold letters, digits, '-' and
// '_'.
func isAtomChain(s string) bool {
	for _, atom := range strings.Split(s, ".") {
		if atom == "" {
			return false
		}
		for i := 0; i < len(atom); i++ {
			c := atom[i]
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			default:
				return false
			}
		}
	}
	return true
}
