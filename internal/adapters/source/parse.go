package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

// Timestamp layouts accepted for GPS exports and form submissions, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
}

// Day-first layouts for questionnaire session dates that carry a year.
var sessionDateLayouts = []string{
	"2/1/2006",
	"2.1.2006",
	"2006-01-02",
}

func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.Join(strings.Fields(h), "_")
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseFloatCell(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "-", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseBoolCell(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "t", "1", "yes", "y":
		return true, nil
	case "false", "f", "0", "no", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized boolean %q", s)
}

// ParseSessionRows converts a GPS export, header row first, into records.
// date_time and athlete columns are required; is_match is optional and
// metric columns are matched by name or alias, and two headers naming the
// same metric are rejected. Other columns are ignored.
func ParseSessionRows(rows [][]string) ([]model.SessionRecord, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	type metricCol struct {
		idx    int
		metric model.Metric
	}
	tsCol, athleteCol, matchCol := -1, -1, -1
	var metricCols []metricCol
	seen := make(map[model.Metric]string)
	for i, h := range rows[0] {
		key := headerKey(h)
		switch key {
		case "date_time", "datetime", "timestamp":
			tsCol = i
			continue
		case "athlete", "player", "name":
			athleteCol = i
			continue
		case "is_match", "match":
			matchCol = i
			continue
		}
		if m, ok := model.ParseMetric(key); ok {
			if prev, dup := seen[m]; dup {
				return nil, fmt.Errorf("%w: %q and %q both map to %s", ErrDuplicateColumn, prev, h, m)
			}
			seen[m] = h
			metricCols = append(metricCols, metricCol{idx: i, metric: m})
		}
	}
	if tsCol < 0 {
		return nil, fmt.Errorf("%w: date_time", ErrMissingColumn)
	}
	if athleteCol < 0 {
		return nil, fmt.Errorf("%w: athlete", ErrMissingColumn)
	}

	out := make([]model.SessionRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		if blank(row) {
			continue
		}
		ts, err := parseTimestamp(cell(row, tsCol))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		isMatch, err := parseBoolCell(cell(row, matchCol))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		rec := model.NewSessionRecord(cell(row, athleteCol), ts, isMatch)
		for _, c := range metricCols {
			v, err := parseFloatCell(cell(row, c.idx))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %w", ErrMalformedRow, line, c.metric, err)
			}
			rec.Set(c.metric, v)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ParseResponseRows converts questionnaire rows, header row first, into
// responses. Session dates written as day/month take the year of the
// submission. Submission times are shifted by offset. Rows with an empty
// required cell are skipped.
func ParseResponseRows(rows [][]string, offset time.Duration) ([]model.RpeResponse, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	tsCol, nameCol, dateCol, rpeCol := -1, -1, -1, -1
	for i, h := range rows[0] {
		key := headerKey(h)
		switch {
		case key == "timestamp":
			tsCol = i
		case key == "rpe":
			rpeCol = i
		case strings.Contains(key, "player") || key == "name" || key == "athlete":
			nameCol = i
		case strings.Contains(key, "session_date") || key == "date":
			dateCol = i
		}
	}
	for _, c := range []struct {
		idx  int
		name string
	}{{tsCol, "timestamp"}, {nameCol, "player"}, {dateCol, "session date"}, {rpeCol, "rpe"}} {
		if c.idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c.name)
		}
	}

	out := make([]model.RpeResponse, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		tsRaw, name, dateRaw, rpeRaw := cell(row, tsCol), cell(row, nameCol), cell(row, dateCol), cell(row, rpeCol)
		if tsRaw == "" || name == "" || dateRaw == "" || rpeRaw == "" {
			continue
		}
		ts, err := parseTimestamp(tsRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		day, err := parseSessionDate(dateRaw, ts.Year())
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		rpe, err := parseRPE(rpeRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		out = append(out, model.RpeResponse{
			AthleteID:   name,
			SessionDate: day,
			RPE:         rpe,
			Timestamp:   ts.Add(offset),
		})
	}
	return out, nil
}

func parseSessionDate(s string, year int) (model.Date, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '.' })
	if len(parts) == 2 {
		s = fmt.Sprintf("%s/%s/%d", parts[0], parts[1], year)
	}
	for _, layout := range sessionDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return model.DateOf(t), nil
		}
	}
	return model.Date{}, fmt.Errorf("unrecognized session date %q", s)
}

func parseRPE(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognized rpe %q", s)
	}
	return int(math.RoundToEven(f)), nil
}
