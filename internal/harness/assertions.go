package harness

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/contactstore/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s rows=%d\n", event.Seq, event.Kind, event.Table, event.Rows)
		}
	}

	return buf.String()
}

// eventMatches reports whether event has kind and, when table is set, table.
func eventMatches(event TraceEvent, kind, table string) bool {
	if string(event.Kind) != kind {
		return false
	}
	return table == "" || event.Table == table
}

func describeEvent(kind, table string) string {
	if table == "" {
		return kind
	}
	return kind + " on " + table
}

// assertTraceContains checks that at least one matching event was recorded.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if eventMatches(event, assertion.Kind, assertion.Table) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describeEvent(assertion.Kind, assertion.Table),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that kinds first appear in the specified order.
// Intervening events are allowed.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		kind := string(event.Kind)
		if _, seen := positions[kind]; !seen {
			positions[kind] = i + 1 // 1-indexed for readability
		}
	}

	for _, kind := range assertion.Kinds {
		if positions[kind] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all kinds present: %v", assertion.Kinds),
				Actual:   fmt.Sprintf("missing kind: %s", kind),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Kinds); i++ {
		prev := assertion.Kinds[i-1]
		curr := assertion.Kinds[i]

		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("kinds in order: %v", assertion.Kinds),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks that exactly Count events match.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if eventMatches(event, assertion.Kind, assertion.Table) {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d events of %s", assertion.Count, describeEvent(assertion.Kind, assertion.Table)),
			Actual:   fmt.Sprintf("%d events", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertRowCount checks the number of rows left in a table.
func assertRowCount(result *Result, assertion Assertion) error {
	actual := tableCount(result.Counts, assertion.Table)
	if actual != assertion.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows in %s", assertion.Count, assertion.Table),
			Actual:   fmt.Sprintf("%d rows", actual),
		}
	}
	return nil
}

func tableCount(c store.Counts, table string) int {
	switch table {
	case store.TableHandshakes:
		return c.Handshakes
	case store.TableContacts:
		return c.Contacts
	case store.TableKnownCases:
		return c.KnownCases
	case store.TableExposureDays:
		return c.ExposureDays
	}
	return 0
}

// assertFinalState finds the single row matching Where and checks the Expect
// fields against it (subset semantics). Rows are compared in their JSON form,
// so field names are the JSON names and days are YYYY-MM-DD.
func assertFinalState(result *Result, assertion Assertion) error {
	rows, err := tableRows(result, assertion.Table)
	if err != nil {
		return err
	}

	var matched []map[string]interface{}
	for _, row := range rows {
		if fieldsMatch(row, assertion.Where) {
			matched = append(matched, row)
		}
	}

	whereDesc := formatWhereClause(assertion.Where)
	switch len(matched) {
	case 0:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("row in %s where %s", assertion.Table, whereDesc),
			Actual:   "row not found",
		}
	case 1:
	default:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, whereDesc),
			Actual:   fmt.Sprintf("%d rows matched (assertion is ambiguous)", len(matched)),
		}
	}

	row := matched[0]
	for _, key := range sortedKeys(assertion.Expect) {
		expected := assertion.Expect[key]
		actual, exists := row[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in row", key),
			}
		}
		if canonicalValue(expected) != canonicalValue(actual) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %s", key, canonicalValue(expected)),
				Actual:   fmt.Sprintf("field %q = %s", key, canonicalValue(actual)),
			}
		}
	}

	return nil
}

// tableRows returns the snapshot rows of table as JSON objects.
func tableRows(result *Result, table string) ([]map[string]interface{}, error) {
	var rows interface{}
	switch table {
	case store.TableHandshakes:
		rows = result.Final.Handshakes
	case store.TableContacts:
		rows = result.Final.Contacts
	case store.TableKnownCases:
		rows = result.Final.KnownCases
	case store.TableExposureDays:
		rows = result.Final.ExposureDays
	default:
		return nil, fmt.Errorf("unknown table %q", table)
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode %s rows: %w", table, err)
	}
	var out []map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", table, err)
	}
	return out, nil
}

// fieldsMatch checks if row holds every want field with an equal value.
func fieldsMatch(row map[string]interface{}, want map[string]interface{}) bool {
	for key, expected := range want {
		actual, ok := row[key]
		if !ok || canonicalValue(actual) != canonicalValue(expected) {
			return false
		}
	}
	return true
}

// canonicalValue renders YAML and JSON scalars the same way, so an int
// from a scenario equals a float64 from JSON and a YAML date equals the
// stored day string.
func canonicalValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.Equal(val.Truncate(24 * time.Hour)) {
			return val.UTC().Format("2006-01-02")
		}
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatWhereClause creates a human-readable description of where conditions.
func formatWhereClause(where map[string]interface{}) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	parts := make([]string, 0, len(where))
	for _, k := range sortedKeys(where) {
		parts = append(parts, fmt.Sprintf("%s=%s", k, canonicalValue(where[k])))
	}
	return strings.Join(parts, " AND ")
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertRowCount:
			err = assertRowCount(result, assertion)
		case AssertFinalState:
			err = assertFinalState(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
