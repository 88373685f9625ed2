package repository

import (
	"fmt"
	"strings"

	"github.com/mineralwatch/api/internal/models"
)

// locationParams is the number of bound parameters a single location
// predicate consumes: section, township, range, meridian.
const locationParams = 4

// statement is one parameterized query destined for a batch call.
type statement struct {
	sql  string
	args []any
}

// chunkLocations splits locs so that an IN-style statement binding
// locationParams parameters per location never exceeds maxParams.
func chunkLocations(locs []models.STR, maxParams int) [][]models.STR {
	perStmt := maxParams / locationParams
	if perStmt < 1 {
		perStmt = 1
	}

	var chunks [][]models.STR
	for start := 0; start < len(locs); start += perStmt {
		end := start + perStmt
		if end > len(locs) {
			end = len(locs)
		}
		chunks = append(chunks, locs[start:end])
	}
	return chunks
}

// groupStatements packs statements into batch calls of at most maxStmts each.
func groupStatements(stmts []statement, maxStmts int) [][]statement {
	if maxStmts < 1 {
		maxStmts = 1
	}

	var batches [][]statement
	for start := 0; start < len(stmts); start += maxStmts {
		end := start + maxStmts
		if end > len(stmts) {
			end = len(stmts)
		}
		batches = append(batches, stmts[start:end])
	}
	return batches
}

// locationTuples renders the placeholder list for an IN clause over location
// tuples, e.g. "($1,$2,$3,$4),($5,$6,$7,$8)".
func locationTuples(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		base := i * locationParams
		fmt.Fprintf(&b, "($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4)
	}
	return b.String()
}

// locationArgs flattens locations into the bind-parameter order produced by
// locationTuples.
func locationArgs(locs []models.STR) []any {
	args := make([]any, 0, len(locs)*locationParams)
	for _, loc := range locs {
		args = append(args, loc.Section, loc.Township, loc.Range, loc.Meridian)
	}
	return args
}
