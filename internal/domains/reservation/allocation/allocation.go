// Package allocation holds the pure part of the table-selection algorithm:
// request validation and the deterministic candidate ordering. The conflict
// check against live reservations happens in the ledger, inside the same
// transaction as the write.
package allocation

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	tableModel "mesa/internal/domains/table/model"
	"mesa/shared/failure"
)

const (
	// MinPartySize is the smallest bookable party. The upper bound is the
	// capacity of the largest active table and therefore dynamic.
	MinPartySize = 1
)

// ValidatePartySize rejects party sizes outside [MinPartySize, maxPartySize]
// before any allocation is attempted.
func ValidatePartySize(partySize, maxPartySize int) error {
	if partySize < MinPartySize || partySize > maxPartySize {
		return failure.InvalidPartySize( //nolint:wrapcheck
			fmt.Sprintf("el tamaño del grupo debe estar entre %d y %d personas", MinPartySize, maxPartySize),
		)
	}

	return nil
}

// ValidateSchedule rejects requested times that are not strictly in the
// future relative to the restaurant clock.
func ValidateSchedule(when, now time.Time) error {
	if !when.After(now) {
		return failure.PastDate("no se pueden hacer reservas para fechas pasadas") //nolint:wrapcheck
	}

	return nil
}

// Candidates filters tables to those that can seat the party and orders them
// best fit first: smallest sufficient capacity, ties broken by ascending
// table number. The ledger walks this order and takes the first table with a
// free window, which keeps large tables available for large parties and
// makes selection reproducible.
func Candidates(tables []tableModel.Table, partySize int) []tableModel.Table {
	candidates := make([]tableModel.Table, 0, len(tables))

	for _, table := range tables {
		if table.Active && table.Capacity >= partySize {
			candidates = append(candidates, table)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Capacity != candidates[j].Capacity {
			return candidates[i].Capacity < candidates[j].Capacity
		}

		return CompareNumbers(candidates[i].Number, candidates[j].Number) < 0
	})

	return candidates
}

// CompareNumbers orders table numbers numerically when both parse as
// integers and lexicographically otherwise, so "2" sorts before "10" but
// "T1" still sorts before "T2".
func CompareNumbers(a, b string) int {
	aInt, aErr := strconv.Atoi(a)
	bInt, bErr := strconv.Atoi(b)

	if aErr == nil && bErr == nil {
		switch {
		case aInt < bInt:
			return -1
		case aInt > bInt:
			return 1
		default:
			return 0
		}
	}

	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
