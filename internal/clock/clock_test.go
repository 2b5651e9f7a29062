// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package clock

import (
	"strings"
	"testing"
	"time"
)

// fixedClock pins the time source to 2026-08-24 10:30:00 local, a
// Monday, so every answer is deterministic.
func fixedClock() *Clock {
	fixed := time.Date(2026, time.August, 24, 10, 30, 0, 0, time.Local)
	return NewClockAt(func() time.Time { return fixed })
}

func TestAnswerQueries(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"current time", "now", []string{"local time:", "date: 2026-08-24", "time: 10:30:00", "weekday: Monday"}},
		{"days ahead", "in 5 days", []string{"5 day(s) from now is 2026-08-29", "Saturday"}},
		{"days ahead alt phrasing", "what is the date 10 days from now", []string{"10 day(s) from now is 2026-09-03"}},
		{"days ago", "3 days ago", []string{"3 day(s) ago was 2026-08-21", "Friday"}},
		{"date difference", "2026-01-01 to 2026-03-01", []string{"2026-01-01 and 2026-03-01 are 59 day(s) apart"}},
		{"countdown future", "days until 2026-12-31", []string{"129 day(s) until 2026-12-31"}},
		{"countdown past", "days until 2026-08-01", []string{"2026-08-01 was 23 day(s) ago"}},
		{"weekday today", "what day of the week is it", []string{"today is Monday, 2026-08-24"}},
		{"weekday tomorrow", "what day is tomorrow", []string{"tomorrow is Tuesday, 2026-08-25"}},
		{"weekday yesterday", "what day was yesterday", []string{"yesterday was Sunday, 2026-08-23"}},
		{"detailed fallback", "tell me about the date", []string{"date: 2026-08-24", "weekday: Monday", "unix:"}},
	}

	c := fixedClock()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Answer(tt.query)
			if err != nil {
				t.Fatalf("Answer(%q): %v", tt.query, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Answer(%q) = %q, missing %q", tt.query, got, want)
				}
			}
		})
	}
}

func TestAnswerUTC(t *testing.T) {
	fixed := time.Date(2026, time.August, 24, 10, 30, 0, 0, time.UTC)
	c := NewClockAt(func() time.Time { return fixed })

	got, err := c.Answer("what is the utc time")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	for _, want := range []string{"UTC time:", "date: 2026-08-24", "time: 10:30:00"} {
		if !strings.Contains(got, want) {
			t.Errorf("Answer = %q, missing %q", got, want)
		}
	}
}

func TestAnswerInvalidDate(t *testing.T) {
	c := fixedClock()
	if _, err := c.Answer("days until 2026-13-45"); err == nil {
		t.Error("expected error for impossible date")
	}
}
