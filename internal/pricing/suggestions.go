// Package pricing turns price-suggestion payloads into store entries.
package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// UnknownCondition labels a suggestion that names no condition.
const UnknownCondition = "unknown"

// Field aliases inside a "suggestions" element, in lookup order.
var (
	conditionFields = []string{"condition", "rating", "label"}
	priceFields     = []string{"price", "value"}
)

// ParseSuggestions extracts a condition → price mapping from raw.
//
// Only a top-level "suggestions" array is understood. Each element yields
// one pair; later duplicates of a label overwrite earlier ones. Anything
// that does not fit this shape is ignored, so the result is never nil and
// parsing never fails.
//
// Example:
//
//	ParseSuggestions([]byte(`{"suggestions":[{"condition":"VG+","price":12.5}]}`))
//	// map[VG+:12.5]
func ParseSuggestions(raw json.RawMessage) map[string]any {
	parsed := map[string]any{}

	var payload map[string]any
	if err := decode(raw, &payload); err != nil {
		return parsed
	}

	list, ok := payload["suggestions"].([]any)
	if !ok {
		return parsed
	}

	for _, item := range list {
		s, ok := item.(map[string]any)
		if !ok {
			continue
		}
		label := UnknownCondition
		if v, ok := firstPresent(s, conditionFields); ok {
			label = fmt.Sprint(v)
		}
		price, _ := firstPresent(s, priceFields)
		parsed[label] = price
	}

	return parsed
}

// firstPresent returns the first field among names that is set to
// something other than null or "".
func firstPresent(m map[string]any, names []string) (any, bool) {
	for _, name := range names {
		v, ok := m[name]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// Summarize renders a condition → price view of an entry for display.
//
// parsed is used when it has values. Otherwise raw is read as the
// marketplace's native shape, {"<condition>": {"currency": "EUR", "value": 12.3}}.
// Unrecognised payloads give an empty map.
func Summarize(parsed map[string]any, raw json.RawMessage) map[string]string {
	out := make(map[string]string)
	if len(parsed) > 0 {
		for label, price := range parsed {
			out[label] = formatPrice(price, "")
		}
		return out
	}

	var payload map[string]any
	if err := decode(raw, &payload); err != nil {
		return out
	}
	for label, v := range payload {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		value, ok := m["value"]
		if !ok {
			continue
		}
		currency, _ := m["currency"].(string)
		out[label] = formatPrice(value, currency)
	}
	return out
}

// SortedConditions returns the labels of a summary in display order.
func SortedConditions(summary map[string]string) []string {
	labels := make([]string, 0, len(summary))
	for label := range summary {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		ri, rj := conditionRank(labels[i]), conditionRank(labels[j])
		if ri != rj {
			return ri < rj
		}
		return labels[i] < labels[j]
	})
	return labels
}

// gradeOrder is the Goldmine grading scale, best first.
var gradeOrder = []string{"M", "NM", "VG+", "VG", "G+", "G", "F", "P"}

func conditionRank(label string) int {
	grade := label
	if i := strings.LastIndex(label, "("); i >= 0 {
		grade = strings.TrimSuffix(label[i+1:], ")")
	}
	grade = strings.TrimSuffix(strings.TrimSpace(grade), " or M-")
	for i, g := range gradeOrder {
		if strings.EqualFold(grade, g) {
			return i
		}
	}
	return len(gradeOrder)
}

func formatPrice(v any, currency string) string {
	var s string
	switch p := v.(type) {
	case nil:
		return "-"
	case json.Number:
		if f, err := p.Float64(); err == nil {
			s = fmt.Sprintf("%.2f", f)
		} else {
			s = p.String()
		}
	default:
		s = fmt.Sprint(p)
	}
	if currency != "" {
		s += " " + currency
	}
	return s
}

func decode(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
