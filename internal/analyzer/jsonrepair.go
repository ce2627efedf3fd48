package analyzer

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The model's output is not schema-guaranteed; this file is the only
// defense against malformed generation. Fix never panics and reports
// plain success/failure to the caller.

const maxRepairPasses = 3

var (
	// A known field name, its colon, then a value that does not start with
	// a quote: the most common truncation artifact the model produces.
	unquotedFieldPattern = regexp.MustCompile(`("(?:stock|impact|reason|summary)":\s*)([^"][^,}\]\n]*)`)

	// Non-nested {...} spans, shortest match, for the last-resort scan.
	braceSpanPattern = regexp.MustCompile(`(?s)\{.*?\}`)
)

// Fix attempts to turn a roughly-JSON string into valid JSON bytes.
// Strategy, in order: strict parse; balance unmatched opening braces;
// up to maxRepairPasses rounds of quoting unquoted field values and
// truncating at the parser's reported error offset; finally, parse the
// last non-nested {...} span found anywhere in the string.
func Fix(jsonStr string) ([]byte, bool) {
	if json.Valid([]byte(jsonStr)) {
		return []byte(jsonStr), true
	}

	current := balanceBraces(jsonStr)

	for pass := 0; pass < maxRepairPasses; pass++ {
		fixed := quoteUnquotedFields(current)
		if json.Valid([]byte(fixed)) {
			return []byte(fixed), true
		}

		// Still broken: cut at the position the parser choked on and
		// close the object again.
		if offset := syntaxErrorOffset(fixed); offset > 0 && int(offset) <= len(fixed) {
			fixed = fixed[:offset]
			if strings.Count(fixed, "{") > strings.Count(fixed, "}") {
				fixed += "}"
			}
		}
		current = fixed
	}

	if json.Valid([]byte(current)) {
		return []byte(current), true
	}

	// Last resort: the final greedy brace span may still be a usable object.
	spans := braceSpanPattern.FindAllString(current, -1)
	if len(spans) > 0 {
		last := spans[len(spans)-1]
		if json.Valid([]byte(last)) {
			return []byte(last), true
		}
	}

	return nil, false
}

func balanceBraces(s string) string {
	if open, closed := strings.Count(s, "{"), strings.Count(s, "}"); open > closed {
		return s + strings.Repeat("}", open-closed)
	}
	return s
}

func quoteUnquotedFields(s string) string {
	return unquotedFieldPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := unquotedFieldPattern.FindStringSubmatch(match)
		prefix, value := parts[1], strings.TrimSpace(parts[2])

		if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			return match
		}

		value = strings.ReplaceAll(value, `\`, `\\`)
		value = strings.ReplaceAll(value, `"`, `\"`)
		return prefix + `"` + value + `"`
	})
}

func syntaxErrorOffset(s string) int64 {
	var parsed interface{}
	err := json.Unmarshal([]byte(s), &parsed)
	if err == nil {
		return 0
	}
	if syntaxErr, ok := err.(*json.SyntaxError); ok {
		return syntaxErr.Offset
	}
	return 0
}
