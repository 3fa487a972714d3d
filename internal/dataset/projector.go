package dataset

import "time"

// PriceRow is one Fact Row joined with its Reference Entity: a dated price
// observation for an instrument plus the instrument's mapper attributes.
// Pointer fields are nullable in the source table.
type PriceRow struct {
	Date        time.Time
	TradingCode string
	Openp       *float64
	High        *float64
	Low         *float64
	Closep      *float64
	Volume      *int64
	Sector      *string
	Category    *string
}

// Flatten hoists the joined reference attributes to top level and returns the
// row as a Record in canonical column order: fact fields first, then the
// reference attributes. The same order is used for every row of an export.
func Flatten(row PriceRow) *Record {
	rec := NewRecord()
	rec.Set("date", row.Date.Format(DateLayout))
	rec.Set("trading_code", row.TradingCode)
	rec.Set("openp", row.Openp)
	rec.Set("high", row.High)
	rec.Set("low", row.Low)
	rec.Set("closep", row.Closep)
	rec.Set("volume", row.Volume)
	rec.Set("sector", row.Sector)
	rec.Set("category", row.Category)
	return rec
}

// Project narrows a record to the allow-listed fields, in allow-list order.
// Unknown names are skipped. An empty allow-list returns the record unchanged.
func Project(rec *Record, fields []string) *Record {
	if len(fields) == 0 {
		return rec
	}
	out := NewRecord()
	for _, name := range fields {
		if v, ok := rec.Get(name); ok {
			out.Set(name, v)
		}
	}
	return out
}
