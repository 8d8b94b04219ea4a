package timezone_test

import (
	"testing"
	"time"

	"mesa/shared/timezone"
)

func TestNow(t *testing.T) {
	now := timezone.Now()
	if now.IsZero() {
		t.Error("Now() returned zero time")
	}

	if now.Location() != timezone.GetLocation() {
		t.Error("Now() is not in the application location")
	}
}

func TestGetLocation(t *testing.T) {
	loc := timezone.GetLocation()
	if loc == nil {
		t.Error("GetLocation() returned nil")
	}
}

func TestToAppTime(t *testing.T) {
	utcTime := time.Now().UTC()
	appTime := timezone.ToAppTime(utcTime)

	if !appTime.Equal(utcTime) {
		t.Error("ToAppTime() changed the instant")
	}

	if appTime.Location() != timezone.GetLocation() {
		t.Error("expected converted time to be in the application location")
	}
}

func TestFormatAndParse(t *testing.T) {
	testTime := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	formatted := timezone.Format(testTime, "2006-01-02 15:04:05 MST")

	if formatted == "" {
		t.Error("Format() returned empty string")
	}

	parsed, err := timezone.Parse("2006-01-02", "2026-09-01")
	if err != nil {
		t.Errorf("Parse() failed: %v", err)
	}

	if parsed.IsZero() {
		t.Error("Parse() returned a zero time")
	}

	if parsed.Location() != timezone.GetLocation() {
		t.Error("Parse() did not use the application location")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := timezone.Parse("2006-01-02", "not-a-date"); err == nil {
		t.Error("expected Parse() to fail on a malformed value")
	}
}
