package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"databazar/internal/dataset"
)

// FieldString renders a single record value as its CSV cell text.
// Nulls become the empty string; numbers keep their shortest exact form.
func FieldString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case *int64:
		if x == nil {
			return ""
		}
		return strconv.FormatInt(*x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

// EncodePage converts a page of records to CSV text. The header row is
// derived from the first record and emitted only when withHeader is set;
// all records of an export share the same field set and order, so the
// header is never re-derived for later pages.
func EncodePage(records []*dataset.Record, withHeader bool) ([]byte, error) {
	if len(records) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if withHeader {
		if err := w.Write(records[0].Keys()); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := make([]string, 0, records[0].Len())
	for _, rec := range records {
		row = row[:0]
		for _, key := range rec.Keys() {
			v, _ := rec.Get(key)
			row = append(row, FieldString(v))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}
