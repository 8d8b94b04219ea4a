package shared_test

import (
	"testing"

	"mesa/shared"
	"mesa/shared/constant"
	"mesa/shared/dto"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{
			name:     "empty string returns nil",
			input:    "",
			expected: nil,
		},
		{
			name:     "valid true string",
			input:    "true",
			expected: boolPtr(true),
		},
		{
			name:     "valid false string",
			input:    "false",
			expected: boolPtr(false),
		},
		{
			name:     "valid 1 string",
			input:    "1",
			expected: boolPtr(true),
		},
		{
			name:     "valid 0 string",
			input:    "0",
			expected: boolPtr(false),
		},
		{
			name:     "valid TRUE string",
			input:    "TRUE",
			expected: boolPtr(true),
		},
		{
			name:     "invalid string returns nil",
			input:    "invalid",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.ConvertStringToBool(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", *result)
				}

				return
			}

			if result == nil {
				t.Errorf("expected %v, got nil", *tt.expected)

				return
			}

			if *result != *tt.expected {
				t.Errorf("expected %v, got %v", *tt.expected, *result)
			}
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{
			name:     "zero total returns one page",
			total:    0,
			limit:    10,
			expected: 1,
		},
		{
			name:     "zero limit returns one page",
			total:    25,
			limit:    0,
			expected: 1,
		},
		{
			name:     "exact division",
			total:    20,
			limit:    10,
			expected: 2,
		},
		{
			name:     "partial last page",
			total:    21,
			limit:    10,
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateRequest struct {
		Capacity int    `db:"capacity"`
		Area     string `db:"area"`
		Ignored  string
	}

	fields := shared.TransformFields(updateRequest{Capacity: 6, Area: "terraza", Ignored: "x"}, "admin")

	if fields["capacity"] != 6 {
		t.Errorf("expected capacity to be 6, got %v", fields["capacity"])
	}

	if fields["area"] != "terraza" {
		t.Errorf("expected area to be 'terraza', got %v", fields["area"])
	}

	if fields[constant.FieldModifiedBy] != "admin" {
		t.Errorf("expected modified_by to be 'admin', got %v", fields[constant.FieldModifiedBy])
	}

	if _, ok := fields[constant.FieldModifiedAt]; !ok {
		t.Error("expected modified_at to be set")
	}

	// Zero-valued and untagged fields stay untouched.
	if len(fields) != 4 {
		t.Errorf("expected 4 fields, got %d", len(fields))
	}
}

func TestTransformFields_SkipsZeroValues(t *testing.T) {
	type updateRequest struct {
		Capacity int    `db:"capacity"`
		Area     string `db:"area"`
	}

	fields := shared.TransformFields(updateRequest{}, "admin")

	if _, ok := fields["capacity"]; ok {
		t.Error("expected zero capacity to be skipped")
	}

	if _, ok := fields["area"]; ok {
		t.Error("expected empty area to be skipped")
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("res-1", "id", "reservations")

	where, args := group.GetWhereClause()

	if where != "(reservations.id = :id)" {
		t.Errorf("unexpected where clause: %q", where)
	}

	if args["id"] != "res-1" {
		t.Errorf("expected id arg to be 'res-1', got %v", args["id"])
	}
}

func TestBuildCacheKey(t *testing.T) {
	key := shared.BuildCacheKey("reservation", "phone", "+34600111222")

	if key != "reservation:phone:+34600111222" {
		t.Errorf("unexpected cache key: %s", key)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "number", SortDir: "ASC"}
	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "area", Value: "terraza", Operator: dto.FilterOperatorEq},
		},
	}

	keyA := shared.BuildCacheKeyWithQuery("table", params, filter)
	keyB := shared.BuildCacheKeyWithQuery("table", params, filter)

	if keyA == "" {
		t.Error("expected a non-empty cache key")
	}

	if keyA != keyB {
		t.Error("expected cache key to be deterministic for equal inputs")
	}

	keyC := shared.BuildCacheKeyWithQuery("table", dto.QueryParams{Page: 2, Limit: 10}, filter)
	if keyA == keyC {
		t.Error("expected different query params to produce a different key")
	}
}

func boolPtr(b bool) *bool {
	return &b
}
