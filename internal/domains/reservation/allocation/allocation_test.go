package allocation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mesa/internal/domains/reservation/allocation"
	tableModel "mesa/internal/domains/table/model"
	"mesa/shared/failure"
)

func testCatalog() []tableModel.Table {
	return []tableModel.Table{
		{ID: "tbl-1", Number: "1", Capacity: 2, Area: tableModel.AreaMainHall, Active: true},
		{ID: "tbl-2", Number: "2", Capacity: 4, Area: tableModel.AreaMainHall, Active: true},
		{ID: "tbl-t1", Number: "T1", Capacity: 4, Area: tableModel.AreaTerrace, Active: true},
		{ID: "tbl-t2", Number: "T2", Capacity: 6, Area: tableModel.AreaTerrace, Active: true},
		{ID: "tbl-p1", Number: "P1", Capacity: 8, Area: tableModel.AreaPrivateRoom, Active: true},
	}
}

func TestValidatePartySize(t *testing.T) {
	tests := []struct {
		name         string
		partySize    int
		maxPartySize int
		wantKind     failure.Kind
	}{
		{name: "minimum party size accepted", partySize: 1, maxPartySize: 8},
		{name: "maximum party size accepted", partySize: 8, maxPartySize: 8},
		{name: "zero rejected", partySize: 0, maxPartySize: 8, wantKind: failure.KindInvalidPartySize},
		{name: "negative rejected", partySize: -3, maxPartySize: 8, wantKind: failure.KindInvalidPartySize},
		{name: "above largest table rejected", partySize: 9, maxPartySize: 8, wantKind: failure.KindInvalidPartySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := allocation.ValidatePartySize(tt.partySize, tt.maxPartySize)

			if tt.wantKind == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.True(t, failure.IsKind(err, tt.wantKind))
				assert.Contains(t, err.Error(), "el tamaño del grupo debe estar entre 1 y 8 personas")
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	now := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		when    time.Time
		wantErr bool
	}{
		{name: "future accepted", when: now.Add(2 * time.Hour), wantErr: false},
		{name: "exactly now rejected", when: now, wantErr: true},
		{name: "past rejected", when: now.Add(-time.Minute), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := allocation.ValidateSchedule(tt.when, now)

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, failure.IsKind(err, failure.KindPastDate))
				assert.Equal(t, "no se pueden hacer reservas para fechas pasadas", err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name        string
		tables      []tableModel.Table
		partySize   int
		wantNumbers []string
	}{
		{
			name:        "best fit orders smallest sufficient capacity first",
			tables:      testCatalog(),
			partySize:   3,
			wantNumbers: []string{"2", "T1", "T2", "P1"},
		},
		{
			name:        "large party only fits large tables",
			tables:      testCatalog(),
			partySize:   5,
			wantNumbers: []string{"T2", "P1"},
		},
		{
			name:        "couple gets the smallest table first",
			tables:      testCatalog(),
			partySize:   2,
			wantNumbers: []string{"1", "2", "T1", "T2", "P1"},
		},
		{
			name:        "nobody fits",
			tables:      testCatalog(),
			partySize:   9,
			wantNumbers: []string{},
		},
		{
			name: "inactive tables are never candidates",
			tables: []tableModel.Table{
				{ID: "tbl-1", Number: "1", Capacity: 4, Active: false},
				{ID: "tbl-2", Number: "2", Capacity: 6, Active: true},
			},
			partySize:   4,
			wantNumbers: []string{"2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := allocation.Candidates(tt.tables, tt.partySize)

			numbers := make([]string, len(candidates))
			for i, candidate := range candidates {
				numbers[i] = candidate.Number
			}

			assert.Equal(t, tt.wantNumbers, numbers)
		})
	}
}

func TestCompareNumbers(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "numeric comparison beats lexicographic", a: "2", b: "10", want: -1},
		{name: "numeric greater", a: "10", b: "9", want: 1},
		{name: "numeric equal", a: "7", b: "7", want: 0},
		{name: "prefixed numbers compare lexicographically", a: "T1", b: "T2", want: -1},
		{name: "mixed falls back to lexicographic", a: "2", b: "T1", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, allocation.CompareNumbers(tt.a, tt.b))
		})
	}
}
