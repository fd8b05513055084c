package gemini

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bryanwahyu/coderefine/internal/domain/review"
)

// jsonObject grabs the outermost {...} span when the model wraps JSON in prose.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

var fence = regexp.MustCompile("(?s)^```[a-zA-Z0-9_+-]*\\s*\\n(.*?)\\n?```$")

func decodeResult(text string) (*review.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, review.ErrEmptyResponse
	}

	fields, err := decodeObject(text)
	if err != nil {
		span := jsonObject.FindString(text)
		if span == "" {
			return nil, fmt.Errorf("%w: no JSON object in response", review.ErrMalformedResponse)
		}
		if fields, err = decodeObject(span); err != nil {
			return nil, fmt.Errorf("%w: %v", review.ErrMalformedResponse, err)
		}
	}
	if len(fields) == 0 {
		return nil, review.ErrEmptyResponse
	}

	return &review.AnalysisResult{
		Score:            asInt(fields["score"]),
		Issues:           asList(fields["issues"]),
		Optimizations:    asList(fields["optimizations"]),
		SecurityConcerns: asList(fields["security_concerns"]),
		Complexity:       asString(fields["complexity"]),
		ImprovedCode:     stripFences(asString(fields["improved_code"])),
		Explanation:      asString(fields["explanation"]),
	}, nil
}

func decodeObject(s string) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// asInt accepts integers, floats (rounded) and numeric strings.
func asInt(raw json.RawMessage) int {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(math.Round(n))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return int(math.Round(f))
	}
	return 0
}

// asList accepts a list of anything or a single string.
func asList(raw json.RawMessage) []string {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return nil
	}
	switch x := v.(type) {
	case []any:
		out := make([]string, 0, len(x))
		for _, it := range x {
			if s := stringify(it); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(x); s != "" {
			return []string{s}
		}
	}
	return nil
}

func asString(raw json.RawMessage) string {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return stringify(v)
}

// stringify flattens objects like {"time": "O(n)", "space": "O(1)"} as
// "space: O(1), time: O(n)".
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+stringify(x[k]))
		}
		return strings.Join(parts, ", ")
	case []any:
		parts := make([]string, 0, len(x))
		for _, it := range x {
			parts = append(parts, stringify(it))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}

func stripFences(code string) string {
	trimmed := strings.TrimSpace(code)
	if m := fence.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return code
}
