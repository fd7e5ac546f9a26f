// Package namex derives canonical comparison keys from human-entered
// package and author names. Two names with the same canonical form are the
// same registry entity regardless of display casing or spacing.
package namex

import (
	"regexp"
	"strings"

	"github.com/avdenisov/roost/internal/common"
)

var (
	illegalChars = regexp.MustCompile(`[^a-z0-9._-]+`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// Canonicalize maps a raw name to its canonical form. It is pure, total and
// idempotent: Canonicalize(Canonicalize(x)) == Canonicalize(x).
//
// Steps: trim, lowercase, whitespace to hyphens, drop everything outside
// [a-z0-9._-], collapse hyphen runs, trim leading/trailing hyphens.
func Canonicalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Join(strings.Fields(s), "-")
	s = illegalChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Key returns the canonical uniqueness key for raw, or ErrInvalid when
// nothing survives canonicalization.
func Key(raw string) (string, error) {
	k := Canonicalize(raw)
	if k == "" {
		return "", common.ErrInvalid
	}
	return k, nil
}
