package journey

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Summary is the reduced form of a Log.
type Summary struct {
	RunID     string   `json:"run_id,omitempty"`
	Total     int      `json:"total"`
	Passed    int      `json:"passed"`
	Failed    int      `json:"failed"`
	AllPassed bool     `json:"all_passed"`
	Entries   []Entry  `json:"entries"`
	Lines     []string `json:"-"`
	Tally     string   `json:"tally"`
}

// Summarize counts the entries of log by outcome and renders one line per
// entry plus a tally. A nil or empty log summarizes to 0/0.
func Summarize(log *Log) Summary {
	entries := log.Entries()
	s := Summary{
		RunID:   log.RunID(),
		Total:   len(entries),
		Entries: entries,
		Lines:   make([]string, 0, len(entries)),
	}
	if s.Entries == nil {
		s.Entries = []Entry{}
	}

	for _, e := range entries {
		if e.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Lines = append(s.Lines, Line(e))
	}

	s.AllPassed = s.Passed == s.Total
	s.Tally = fmt.Sprintf("%d/%d steps passed", s.Passed, s.Total)
	return s
}

// Line renders one entry as a single report line.
func Line(e Entry) string {
	status := "PASS"
	msg := e.Message
	if !e.Passed {
		status = "FAIL"
		if k := e.Kind.String(); k != "" {
			msg = "[" + k + "] " + msg
		}
	}
	return fmt.Sprintf("%s  [%s] %s - %s", status, e.Time.Format("15:04:05"), e.Name, msg)
}

// FormatText renders a summary as human-readable text.
func FormatText(s Summary) string {
	var b strings.Builder

	header := "Journey summary"
	if s.RunID != "" {
		header += " (run " + s.RunID + ")"
	}
	fmt.Fprintln(&b, header)
	fmt.Fprintln(&b, strings.Repeat("=", len(header)))

	for _, line := range s.Lines {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	fmt.Fprintln(&b, strings.Repeat("-", len(header)))
	fmt.Fprintln(&b, s.Tally)

	if s.AllPassed {
		fmt.Fprintln(&b, "Result: PASS (all steps passed)")
	} else {
		fmt.Fprintf(&b, "Result: FAIL (%d of %d steps failed)\n", s.Failed, s.Total)
	}

	return b.String()
}

// FormatJSON renders a summary as JSON.
func FormatJSON(s Summary) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	return string(data), nil
}
