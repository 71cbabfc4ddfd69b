package ucd

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"
)

//go:embed words.txt
var wordList []byte

// Flag is the placement class of a vocabulary word.
type Flag byte

const (
	FlagPrimary     Flag = 'P'
	FlagSecondary   Flag = 'S'
	FlagEither      Flag = 'Q'
	FlagPhotometric Flag = 'E'
	FlagColour      Flag = 'C'
	FlagVector      Flag = 'V'
)

// Primary reports whether a word with this flag may lead a UCD.
func (f Flag) Primary() bool {
	return f != FlagSecondary
}

// Secondary reports whether a word with this flag may follow the first word.
func (f Flag) Secondary() bool {
	return f != FlagPrimary
}

var vocabulary = sync.OnceValues(func() (map[string]Flag, error) {
	return parseWordList(wordList)
})

// Lookup returns the flag of a vocabulary word. Lookup is case-insensitive.
func Lookup(word string) (Flag, bool) {
	words, err := vocabulary()
	if err != nil {
		return 0, false
	}
	flag, ok := words[strings.ToLower(word)]
	return flag, ok
}

func parseWordList(data []byte) (map[string]Flag, error) {
	words := make(map[string]Flag)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		flag, word, ok := strings.Cut(text, "|")
		if !ok || len(flag) != 1 || word == "" {
			return nil, fmt.Errorf("ucd: words.txt line %d: malformed entry %q", line, text)
		}
		switch Flag(flag[0]) {
		case FlagPrimary, FlagSecondary, FlagEither, FlagPhotometric, FlagColour, FlagVector:
		default:
			return nil, fmt.Errorf("ucd: words.txt line %d: unknown flag %q", line, flag)
		}
		words[strings.ToLower(word)] = Flag(flag[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ucd: read words.txt: %w", err)
	}
	return words, nil
}
