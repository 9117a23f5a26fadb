// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketevent

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/araddon/dateparse"
)

// Renderer formats metadata values and timestamps in a fixed time
// zone. The zero Renderer uses the local zone.
type Renderer struct {
	Location *time.Location
}

func (r Renderer) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

var defaultRenderer Renderer

// FormatValue formats a metadata value with the default Renderer.
func FormatValue(field string, value any) string {
	return defaultRenderer.FormatValue(field, value)
}

// FormatValue formats one metadata value for display. The rules apply
// in order:
//
//   - null and the empty string render as EmptyValue
//   - a string on a field ending in "_at" that parses as a date renders
//     as "15:04 - 02/01/2006"; otherwise it falls through
//   - a string on "status" or "priority" renders through the label
//     table, raw if unmapped
//   - booleans render as "sim" or "nao"
//   - a number on a field ending in "_by" or "_id", or on
//     "assigned_to", renders as "ID <n>"; other numbers render as-is
//   - other strings render as-is
//   - objects and arrays render as compact JSON
func (r Renderer) FormatValue(field string, value any) string {
	if value == nil {
		return EmptyValue
	}
	if text, ok := value.(string); ok {
		if text == "" {
			return EmptyValue
		}
		if strings.HasSuffix(field, "_at") {
			if parsed, ok := r.parseDate(text); ok {
				return parsed.Format("15:04 - 02/01/2006")
			}
		}
		switch field {
		case "status":
			if label, ok := metaStatusLabels[text]; ok {
				return label
			}
		case "priority":
			if label, ok := metaPriorityLabels[text]; ok {
				return label
			}
		}
		return text
	}
	if flag, ok := value.(bool); ok {
		if flag {
			return yes
		}
		return no
	}
	if number, ok := numberText(value); ok {
		if strings.HasSuffix(field, "_by") || strings.HasSuffix(field, "_id") || field == "assigned_to" {
			return "ID " + number
		}
		return number
	}
	return dump(value)
}

// parseDate accepts the same loose range of date spellings a browser
// does: RFC 3339 with or without fractional seconds or zone, plain
// dates, and the common US and European layouts. The result is
// converted to the renderer's zone.
func (r Renderer) parseDate(text string) (time.Time, bool) {
	location := r.location()
	result, err := dateparse.ParseIn(text, location)
	if err != nil {
		return time.Time{}, false
	}
	return result.In(location), true
}

// numberText returns the decimal text of a numeric value.
func numberText(value any) (string, bool) {
	switch number := value.(type) {
	case json.Number:
		return number.String(), true
	case int:
		return strconv.Itoa(number), true
	case int32:
		return strconv.FormatInt(int64(number), 10), true
	case int64:
		return strconv.FormatInt(number, 10), true
	case uint64:
		return strconv.FormatUint(number, 10), true
	case float32:
		return strconv.FormatFloat(float64(number), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(number, 'f', -1, 64), true
	}
	return "", false
}

func dump(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}

// HumanizeKey turns a snake_case key into a label: underscores become
// spaces and the first word is capitalized ("due_date" → "Due date").
func HumanizeKey(key string) string {
	words := strings.Split(key, "_")
	if first := words[0]; first != "" {
		head, size := utf8.DecodeRuneInString(first)
		words[0] = string(unicode.ToUpper(head)) + first[size:]
	}
	return strings.Join(words, " ")
}
