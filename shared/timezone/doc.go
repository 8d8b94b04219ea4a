// Package timezone provides timezone utilities for the application.
//
// Reservation times, the "not in the past" check and the daily slot grid are
// all evaluated against the restaurant's local clock, never the server's.
//
// Usage:
//
//  1. Basic usage after initialization:
//     now := timezone.Now()                    // Get current time in restaurant timezone
//     appTime := timezone.ToAppTime(someTime)  // Convert any time to restaurant timezone
//
//  2. Formatting and parsing:
//     formatted := timezone.Format(time.Now(), "2006-01-02 15:04:05")
//     t, err := timezone.Parse("2006-01-02", "2024-01-01")
//
// The timezone is configured via the APP_TIMEZONE environment variable and is
// automatically initialized when the package is imported. Use standard IANA
// timezone database names.
package timezone
