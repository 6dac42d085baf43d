// Package cellref converts between 1-based column indices and the
// spreadsheet column-letter notation (A, B, ..., Z, AA, ...) and parses
// A1-style cell and range references.
//
// Column letters are a bijective base-26 encoding with digits A–Z and no
// zero digit: column 1 is "A", column 26 is "Z", column 27 is "AA".
package cellref

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAddress is returned when a column-letter string or cell
// reference cannot be parsed. Callers must treat it as fatal rather than
// coercing the input to a default address.
var ErrInvalidAddress = errors.New("cellref: invalid address")

// IndexToLetters converts a 1-based column index to its letter form.
// It returns "" for n < 1.
func IndexToLetters(n int) string {
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return string(letters)
}

// LettersToIndex converts a column-letter string to its 1-based index.
// The input is case-insensitive. Empty or non-alphabetic input yields
// ErrInvalidAddress.
func LettersToIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("%w: empty column letters", ErrInvalidAddress)
	}
	n := 0
	for _, ch := range strings.ToUpper(letters) {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, letters)
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n, nil
}

// ParseRef splits an A1-style cell reference into its 1-based column index
// and row number. Absolute markers ($) are accepted and ignored.
func ParseRef(ref string) (col, row int, err error) {
	s := strings.ReplaceAll(ref, "$", "")
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, fmt.Errorf("%w: cell reference %q", ErrInvalidAddress, ref)
	}
	col, err = LettersToIndex(s[:i])
	if err != nil {
		return 0, 0, err
	}
	row, err = strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("%w: cell reference %q", ErrInvalidAddress, ref)
	}
	return col, row, nil
}

// RangeEnd returns the column letters and row number of the last cell of a
// range reference like "A1:C7". A single-cell reference ("C7") is treated
// as a range of one.
func RangeEnd(ref string) (letters string, row int, err error) {
	end := ref
	if _, after, ok := strings.Cut(ref, ":"); ok {
		end = after
	}
	col, row, err := ParseRef(end)
	if err != nil {
		return "", 0, err
	}
	return IndexToLetters(col), row, nil
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
