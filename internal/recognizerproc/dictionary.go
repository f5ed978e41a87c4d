package recognizerproc

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"
)

// Dictionary maps CTC class indices to runes. Index 0 is always the CTC
// blank symbol and never decodes to output text.
type Dictionary struct {
	entries []rune
}

// NewDictionary builds a Dictionary from a newline-delimited character list,
// one rune (or short token) per line, normalizing each line to NFC so that
// dictionaries authored with combining-mark sequences decode identically to
// ones authored with precomposed runes.
func NewDictionary(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{entries: []rune{0}} // index 0 reserved for the CTC blank
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := norm.NFC.String(sc.Text())
		if line == "" {
			continue
		}
		runes := []rune(line)
		d.entries = append(d.entries, runes[0])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("recognizerproc: read dictionary: %w", err)
	}
	return d, nil
}

// Len returns the number of classes, including the blank at index 0.
func (d *Dictionary) Len() int { return len(d.entries) }

// Rune returns the character for class index idx, or false if idx is out of
// range or is the blank class.
func (d *Dictionary) Rune(idx int) (rune, bool) {
	if idx <= 0 || idx >= len(d.entries) {
		return 0, false
	}
	return d.entries[idx], true
}
