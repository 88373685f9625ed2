// Package plss canonicalizes Public Land Survey System locations and computes
// section adjacency within a single 6x6 township/range block. Everything in
// this package is pure: no I/O, no state, deterministic outputs.
package plss

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mineralwatch/api/internal/models"
)

// Section numbers run 1-36 inside a township.
const (
	MinSection = 1
	MaxSection = 36
)

// ErrInvalidLocation is returned for STRs that cannot describe a real section.
var ErrInvalidLocation = errors.New("invalid location")

// Meridians is the fixed set of principal meridians this deployment covers.
var Meridians = map[string]bool{
	"IM": true, // Indian Meridian
	"CM": true, // Cimarron Meridian
}

// townshipRangePattern matches a canonical township or range token: one or two
// digits followed by a single direction letter.
var townshipRangePattern = regexp.MustCompile(`^0*([0-9]{1,2})([NSEW])$`)

// Normalize canonicalizes the raw STR so that equal locations compare equal.
//
// Section must be 1-36 or ErrInvalidLocation is returned. Township and range
// tokens are accepted with or without leading zeros and interior whitespace
// ("7N", "07N" and "7 N" are the same place); the canonical form has neither.
// Tokens that still fail the pattern are passed through unchanged - callers
// treat them as "matches nothing" rather than an error, so a malformed record
// in one store cannot fail a whole aggregation. The meridian is uppercased;
// values outside Meridians also pass through for diagnostic visibility.
//
// Normalize is idempotent: applying it to its own output is a no-op.
func Normalize(loc models.STR) (models.STR, error) {
	if loc.Section < MinSection || loc.Section > MaxSection {
		return models.STR{}, fmt.Errorf("%w: section %d out of range", ErrInvalidLocation, loc.Section)
	}

	return models.STR{
		Section:  loc.Section,
		Township: CanonicalDirectional(loc.Township),
		Range:    CanonicalDirectional(loc.Range),
		Meridian: strings.ToUpper(strings.TrimSpace(loc.Meridian)),
	}, nil
}

// CanonicalDirectional canonicalizes a township or range token: whitespace
// removed, uppercased, leading zeros stripped. Non-matching input is returned
// unchanged.
func CanonicalDirectional(raw string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	m := townshipRangePattern.FindStringSubmatch(compact)
	if m == nil {
		return raw
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n == 0 {
		return raw
	}
	return strconv.Itoa(n) + m[2]
}

// KnownMeridian reports whether m is one of the supported principal meridians.
// Unknown meridians are not an error; they simply never match stored records.
func KnownMeridian(m string) bool {
	return Meridians[strings.ToUpper(strings.TrimSpace(m))]
}
