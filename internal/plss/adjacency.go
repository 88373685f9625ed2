package plss

import (
	"fmt"

	"github.com/mineralwatch/api/internal/models"
)

// sectionNeighbors is the fixed adjacency table for the standard PLSS
// boustrophedon section layout:
//
//	 6  5  4  3  2  1
//	 7  8  9 10 11 12
//	18 17 16 15 14 13
//	19 20 21 22 23 24
//	30 29 28 27 26 25
//	31 32 33 34 35 36
//
// Only edge-sharing sections are adjacent (the regulatory reading of
// "adjacent section"); corner-touching sections are not. Sections on the
// block boundary see only their in-block neighbors - adjacency never crosses
// into another township/range.
var sectionNeighbors = map[int][]int{
	1:  {2, 12},
	2:  {1, 3, 11},
	3:  {2, 4, 10},
	4:  {3, 5, 9},
	5:  {4, 6, 8},
	6:  {5, 7},
	7:  {6, 8, 18},
	8:  {5, 7, 9, 17},
	9:  {4, 8, 10, 16},
	10: {3, 9, 11, 15},
	11: {2, 10, 12, 14},
	12: {1, 11, 13},
	13: {12, 14, 24},
	14: {11, 13, 15, 23},
	15: {10, 14, 16, 22},
	16: {9, 15, 17, 21},
	17: {8, 16, 18, 20},
	18: {7, 17, 19},
	19: {18, 20, 30},
	20: {17, 19, 21, 29},
	21: {16, 20, 22, 28},
	22: {15, 21, 23, 27},
	23: {14, 22, 24, 26},
	24: {13, 23, 25},
	25: {24, 26, 36},
	26: {23, 25, 27, 35},
	27: {22, 26, 28, 34},
	28: {21, 27, 29, 33},
	29: {20, 28, 30, 32},
	30: {19, 29, 31},
	31: {30, 32},
	32: {29, 31, 33},
	33: {28, 32, 34},
	34: {27, 33, 35},
	35: {26, 34, 36},
	36: {25, 35},
}

// Neighbors returns the sections sharing an edge with the given section,
// within the same township/range block. Corner sections have 2 neighbors,
// edge sections 3, interior sections 4.
func Neighbors(section int) ([]int, error) {
	adj, ok := sectionNeighbors[section]
	if !ok {
		return nil, fmt.Errorf("%w: section %d out of range", ErrInvalidLocation, section)
	}

	out := make([]int, len(adj))
	copy(out, adj)
	return out, nil
}

// NeighborLocations returns the STRs of the sections adjacent to loc, all in
// loc's own township/range/meridian. loc should already be normalized.
func NeighborLocations(loc models.STR) ([]models.STR, error) {
	sections, err := Neighbors(loc.Section)
	if err != nil {
		return nil, err
	}

	out := make([]models.STR, 0, len(sections))
	for _, s := range sections {
		out = append(out, models.STR{
			Section:  s,
			Township: loc.Township,
			Range:    loc.Range,
			Meridian: loc.Meridian,
		})
	}
	return out, nil
}
