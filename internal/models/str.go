package models

import "fmt"

// STR identifies a one-square-mile section within a Public Land Survey System
// township/range grid, measured from a named principal meridian.
// Township and Range carry their directional suffix (e.g. "9N", "5W").
type STR struct {
	Section  int    `json:"section"`
	Township string `json:"township"`
	Range    string `json:"range"`
	Meridian string `json:"meridian"`
}

// Key returns the comparable form used for map lookups and dedup.
// Two STRs describe the same section iff their keys are equal.
func (s STR) Key() string {
	return fmt.Sprintf("%d|%s|%s|%s", s.Section, s.Township, s.Range, s.Meridian)
}

// String formats the location in the conventional legal form, e.g. "S15-T9N-R5W-IM".
func (s STR) String() string {
	return fmt.Sprintf("S%d-T%s-R%s-%s", s.Section, s.Township, s.Range, s.Meridian)
}

// IsZero reports whether no location is set.
func (s STR) IsZero() bool {
	return s.Section == 0 && s.Township == "" && s.Range == "" && s.Meridian == ""
}
