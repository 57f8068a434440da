package probe

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteReport renders results as deterministic human-readable text:
// exactly one status line per endpoint, in input order. Successful
// responses get a pretty-printed JSON block; 404s are reported as
// absent with no error annotation.
func WriteReport(w io.Writer, results []Result) error {
	for i, res := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeResult(w, res); err != nil {
			return err
		}
	}
	return nil
}

func writeResult(w io.Writer, res Result) error {
	label := "GET " + res.Endpoint.Path

	switch res.Outcome {
	case OutcomeOK:
		if _, err := fmt.Fprintf(w, "%s -> %d\n", label, res.StatusCode); err != nil {
			return err
		}
		pretty, err := prettyJSON(res.Body)
		if err != nil {
			// Body already validated as JSON; fall back to raw just in case
			pretty = string(res.Body)
		}
		_, err = fmt.Fprintln(w, pretty)
		return err

	case OutcomeNotFound:
		_, err := fmt.Fprintf(w, "%s -> 404 (not present)\n", label)
		return err

	case OutcomeParse:
		_, err := fmt.Fprintf(w, "%s -> %d Error: body is not valid JSON: %s\n", label, res.StatusCode, res.Preview)
		return err

	case OutcomeHTTPError:
		_, err := fmt.Fprintf(w, "%s -> %d Error: %s\n", label, res.StatusCode, res.Preview)
		return err

	default: // OutcomeTransport
		_, err := fmt.Fprintf(w, "%s -> Error: %s\n", label, res.Error)
		return err
	}
}

// Summarize produces the one-line batch summary shown above the report.
func Summarize(results []Result) string {
	var ok, absent, failed int
	for _, res := range results {
		switch res.Outcome {
		case OutcomeOK:
			ok++
		case OutcomeNotFound:
			absent++
		default:
			failed++
		}
	}

	parts := []string{fmt.Sprintf("%d probed", len(results))}
	if ok > 0 {
		parts = append(parts, fmt.Sprintf("%d ok", ok))
	}
	if absent > 0 {
		parts = append(parts, fmt.Sprintf("%d absent", absent))
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	return strings.Join(parts, ", ")
}

func prettyJSON(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
