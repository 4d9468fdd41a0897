package forms

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

// exportBaseColumns are the fixed leading CSV columns; answer columns follow,
// one per distinct answer key across the export, sorted by key.
var exportBaseColumns = []string{
	"submission_id", "form_id", "form_slug", "form_name",
	"status", "created_at", "version_id", "version_number",
}

// WriteSubmissionsCSV streams a form's submissions as CSV. Answer columns are
// the union of keys across all exported submissions so rows from different
// schema versions line up; a submission without a key leaves the cell empty.
func WriteSubmissionsCSV(w io.Writer, form *models.Form, subs []models.Submission) error {
	answers := make([]map[string]interface{}, len(subs))
	keySet := map[string]struct{}{}
	for i, s := range subs {
		var doc map[string]interface{}
		if len(s.Answers) > 0 {
			if err := json.Unmarshal(s.Answers, &doc); err != nil {
				doc = nil
			}
		}
		answers[i] = doc
		for k := range doc {
			keySet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cw := csv.NewWriter(w)
	header := append(append([]string{}, exportBaseColumns...), prefixKeys(keys)...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, s := range subs {
		row := []string{
			s.ID.String(),
			s.FormID.String(),
			form.Slug,
			form.Name,
			s.Status,
			s.CreatedAt.UTC().Format(time.RFC3339),
			s.VersionID.String(),
			strconv.Itoa(s.VersionNumber),
		}
		for _, k := range keys {
			row = append(row, answerCell(answers[i][k]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func prefixKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = "answer." + k
	}
	return out
}

// answerCell flattens a JSON answer value for CSV: strings pass through,
// booleans render true/false, arrays join with " | ".
func answerCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, answerCell(item))
		}
		joined := ""
		for i, p := range parts {
			if i > 0 {
				joined += " | "
			}
			joined += p
		}
		return joined
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
