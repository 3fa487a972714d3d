package dataset

import (
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar date format accepted by the filter bounds
const DateLayout = "2006-01-02"

// validate is shared across requests; Validator instances cache struct metadata
var validate = validator.New()

// Filter is the validated set of optional predicates shared by preview and
// export. A zero-value field means no restriction on that dimension.
type Filter struct {
	Sector      string `validate:"omitempty,max=100"`
	TradingCode string `validate:"omitempty,max=50"`
	StartDate   string `validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `validate:"omitempty,datetime=2006-01-02"`

	// Fields is the optional projection allow-list. Nil means no projection.
	Fields []string
}

// FilterError reports the query parameter that failed validation
type FilterError struct {
	Param  string
	Reason string
}

func (e *FilterError) Error() string {
	return "invalid filter: " + e.Param + ": " + e.Reason
}

// ParseFilter builds a Filter from raw query parameters. Unrecognized
// parameters are ignored. A malformed date bound is rejected, not dropped.
func ParseFilter(query url.Values) (Filter, error) {
	f := Filter{
		Sector:      query.Get("sector"),
		TradingCode: query.Get("trading_code"),
		StartDate:   query.Get("startDate"),
		EndDate:     query.Get("endDate"),
		Fields:      parseFields(query.Get("fields")),
	}

	if err := validate.Struct(f); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return Filter{}, &FilterError{
				Param:  paramName(errs[0].Field()),
				Reason: reasonFor(errs[0]),
			}
		}
		return Filter{}, &FilterError{Param: "filter", Reason: err.Error()}
	}

	return f, nil
}

// parseFields splits the comma-separated allow-list, dropping empty entries.
// Empty or absent input means no projection.
func parseFields(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// reasonFor renders a human-readable message for a failed validation tag
func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "datetime":
		return "must be a calendar date in YYYY-MM-DD format"
	case "max":
		return "value is too long"
	default:
		return "invalid value"
	}
}

// paramName maps a struct field name back to its query parameter name
func paramName(field string) string {
	switch field {
	case "Sector":
		return "sector"
	case "TradingCode":
		return "trading_code"
	case "StartDate":
		return "startDate"
	case "EndDate":
		return "endDate"
	default:
		return field
	}
}
