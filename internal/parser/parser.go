// Package parser splits a typed line into keypad keys. It does not parse
// expressions: "2+3*4=" is seven key presses, evaluated by a session.
package parser

import (
	"bufio"
	"fmt"
	"strings"
	"unicode"

	op "github.com/XJIeI5/keypad/internal/operation"
)

var (
	ErrUnknownKey = fmt.Errorf("unknown key")
)

// GetStringNumber returns the leading run of digits and points of expr.
func GetStringNumber(expr string) string {
	var result string

	sc := bufio.NewScanner(strings.NewReader(expr))
	sc.Split(bufio.ScanRunes)
	for sc.Scan() {
		if r := sc.Text(); isDigit(r) || r == op.KeyPoint {
			result += r
			continue
		}
		break
	}

	return result
}

// GetOperator returns the longest operator key expr starts with, or "".
func GetOperator(expr string, reg *op.Registry) string {
	for _, sym := range reg.Symbols() {
		if strings.HasPrefix(expr, sym) {
			return sym
		}
	}
	return ""
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}

func isCommand(word string) bool {
	for _, c := range op.Commands {
		if word == c {
			return true
		}
	}
	return false
}

// ParseKeys splits line into keys. Command keys (CE, AC, DEL) must stand
// alone between spaces; everything else may be written together, with
// operator keys matched longest first.
func ParseKeys(line string, reg *op.Registry) ([]string, error) {
	var keys []string
	for _, word := range strings.FieldsFunc(line, unicode.IsSpace) {
		if isCommand(word) {
			keys = append(keys, word)
			continue
		}
		for i := 0; i < len(word); {
			rest := word[i:]
			if num := GetStringNumber(rest); num != "" {
				for _, r := range num {
					keys = append(keys, string(r))
				}
				i += len(num)
				continue
			}
			switch c := rest[:1]; c {
			case op.KeyOpen, op.KeyClose, op.KeyEquals:
				keys = append(keys, c)
				i++
				continue
			}
			sym := GetOperator(rest, reg)
			if sym == "" {
				return nil, fmt.Errorf("%w at %q", ErrUnknownKey, rest)
			}
			keys = append(keys, sym)
			i += len(sym)
		}
	}
	return keys, nil
}
