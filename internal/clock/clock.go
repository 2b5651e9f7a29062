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

// Package clock answers free-text time and date queries. Query text is
// tokenized into a typed request before any computation, keeping the
// pattern matching separate from the date arithmetic.
package clock

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "toolhost/internal/errors"
)

type queryKind int

const (
	queryCurrent queryKind = iota
	queryUTC
	queryDaysAfter
	queryDaysBefore
	queryDifference
	queryCountdown
	queryWeekday
	queryDetailed
)

// request is the typed form of a parsed time query.
type request struct {
	kind   queryKind
	days   int
	first  time.Time
	second time.Time
	offset int // day offset for weekday queries
}

// Clock answers time queries. The time source is injectable for tests.
type Clock struct {
	now func() time.Time
}

// NewClock returns a clock backed by the system time.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockAt returns a clock with a fixed time source.
func NewClockAt(now func() time.Time) *Clock {
	return &Clock{now: now}
}

var (
	daysAgoPattern   = regexp.MustCompile(`(\d+)\s*days?\s*ago`)
	daysAfterPattern = regexp.MustCompile(`(?:in\s+(\d+)\s*days?|(\d+)\s*days?\s*(?:after|from now|later))`)
	datePattern      = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
)

// parseQuery maps query text to a typed request. Unrecognized text
// falls through to the detailed current-time report.
func (c *Clock) parseQuery(query string) (request, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	switch q {
	case "now", "time", "current time", "what time is it":
		return request{kind: queryCurrent}, nil
	}
	if strings.Contains(q, "utc") {
		return request{kind: queryUTC}, nil
	}

	if m := daysAgoPattern.FindStringSubmatch(q); m != nil {
		days, err := strconv.Atoi(m[1])
		if err != nil {
			return request{}, apperrors.Newf(apperrors.KindInvalidData, "invalid day count: %s", m[1])
		}
		return request{kind: queryDaysBefore, days: days}, nil
	}
	if m := daysAfterPattern.FindStringSubmatch(q); m != nil {
		text := m[1]
		if text == "" {
			text = m[2]
		}
		days, err := strconv.Atoi(text)
		if err != nil {
			return request{}, apperrors.Newf(apperrors.KindInvalidData, "invalid day count: %s", text)
		}
		return request{kind: queryDaysAfter, days: days}, nil
	}

	dates := datePattern.FindAllStringSubmatch(q, 2)
	if len(dates) == 2 {
		first, err := parseDate(dates[0])
		if err != nil {
			return request{}, err
		}
		second, err := parseDate(dates[1])
		if err != nil {
			return request{}, err
		}
		return request{kind: queryDifference, first: first, second: second}, nil
	}
	if len(dates) == 1 && (strings.Contains(q, "until") || strings.Contains(q, "countdown")) {
		target, err := parseDate(dates[0])
		if err != nil {
			return request{}, err
		}
		return request{kind: queryCountdown, first: target}, nil
	}

	if strings.Contains(q, "weekday") || strings.Contains(q, "day of the week") || strings.Contains(q, "what day") {
		offset := 0
		if strings.Contains(q, "tomorrow") {
			offset = 1
		} else if strings.Contains(q, "yesterday") {
			offset = -1
		}
		return request{kind: queryWeekday, offset: offset}, nil
	}

	return request{kind: queryDetailed}, nil
}

func parseDate(match []string) (time.Time, error) {
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, apperrors.Newf(apperrors.KindInvalidData, "invalid date: %s", match[0])
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

// Answer resolves a free-text time query.
func (c *Clock) Answer(query string) (string, error) {
	req, err := c.parseQuery(query)
	if err != nil {
		return "", err
	}
	now := c.now()

	switch req.kind {
	case queryCurrent:
		return formatDetail(now, "local time"), nil

	case queryUTC:
		return formatDetail(now.UTC(), "UTC time"), nil

	case queryDaysAfter:
		target := now.AddDate(0, 0, req.days)
		return fmt.Sprintf("%d day(s) from now is %s (%s)",
			req.days, target.Format("2006-01-02"), target.Weekday()), nil

	case queryDaysBefore:
		target := now.AddDate(0, 0, -req.days)
		return fmt.Sprintf("%d day(s) ago was %s (%s)",
			req.days, target.Format("2006-01-02"), target.Weekday()), nil

	case queryDifference:
		diff := daysBetween(req.first, req.second)
		return fmt.Sprintf("%s and %s are %d day(s) apart",
			req.first.Format("2006-01-02"), req.second.Format("2006-01-02"), diff), nil

	case queryCountdown:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		diff := daysBetween(today, req.first)
		if req.first.Before(today) {
			return fmt.Sprintf("%s was %d day(s) ago", req.first.Format("2006-01-02"), diff), nil
		}
		return fmt.Sprintf("%d day(s) until %s", diff, req.first.Format("2006-01-02")), nil

	case queryWeekday:
		target := now.AddDate(0, 0, req.offset)
		label := map[int]string{-1: "yesterday was", 0: "today is", 1: "tomorrow is"}[req.offset]
		return fmt.Sprintf("%s %s, %s", label, target.Weekday(), target.Format("2006-01-02")), nil

	default:
		return strings.Join([]string{
			fmt.Sprintf("date: %s", now.Format("2006-01-02")),
			fmt.Sprintf("time: %s", now.Format("15:04:05")),
			fmt.Sprintf("weekday: %s", now.Weekday()),
			fmt.Sprintf("unix: %d", now.Unix()),
		}, "\n"), nil
	}
}

// daysBetween rounds so daylight-saving offsets never skew the count.
func daysBetween(a, b time.Time) int {
	diff := int(math.Round(b.Sub(a).Hours() / 24))
	if diff < 0 {
		return -diff
	}
	return diff
}

func formatDetail(t time.Time, label string) string {
	return fmt.Sprintf("%s:\n  date: %s\n  time: %s\n  weekday: %s",
		label, t.Format("2006-01-02"), t.Format("15:04:05"), t.Weekday())
}
