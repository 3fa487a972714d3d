package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"

	"databazar/internal/config"
	"databazar/internal/dataset"
)

// ErrSourceUnavailable marks transport or driver failures talking to the
// external store. Callers must treat it as fatal for the current request;
// there is no automatic retry.
var ErrSourceUnavailable = errors.New("data source unavailable")

const (
	factTable      = "dsex_prices"
	referenceTable = "dsex_mapper"
)

// Open creates the shared database handle with pool limits applied.
// The handle is constructed once at process start and passed by reference
// into every component that needs it.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// Store issues ordered, range-paginated, filtered, joined queries against
// the live price table.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a Store around an open database handle
func New(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With(slog.String("component", "store")),
	}
}

// DateRange holds the min/max observation dates of the live table
type DateRange struct {
	MinDate string `json:"minDate"`
	MaxDate string `json:"maxDate"`
}

// buildPageQuery assembles the joined, filtered page query. Rows whose
// trading code has no mapper entry are dropped by the inner join. Ordering
// is date descending with trading_code as the stable tie-break, so repeated
// calls with the same filter and offset are deterministic.
func buildPageQuery(f dataset.Filter, offset, limit uint) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`SELECT p.date, p.trading_code, p.openp, p.high, p.low, p.closep, p.volume, m.sector, m.category`)
	sb.WriteString(` FROM ` + factTable + ` AS p`)
	sb.WriteString(` INNER JOIN ` + referenceTable + ` AS m ON m.trading_code = p.trading_code`)

	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Sector != "" {
		add("m.sector = $%d", f.Sector)
	}
	if f.TradingCode != "" {
		add("m.trading_code = $%d", f.TradingCode)
	}
	if f.StartDate != "" {
		add("p.date >= $%d", f.StartDate)
	}
	if f.EndDate != "" {
		add("p.date <= $%d", f.EndDate)
	}

	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	sb.WriteString(" ORDER BY p.date DESC, p.trading_code ASC")
	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	args = append(args, offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	return sb.String(), args
}

// FetchPage returns one page of joined rows for the filter, ordered by date
// descending. The page size bounds memory use for arbitrarily large exports.
func (s *Store) FetchPage(ctx context.Context, f dataset.Filter, offset, limit uint) ([]dataset.PriceRow, error) {
	query, args := buildPageQuery(f, offset, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "page query failed",
			slog.Uint64("offset", uint64(offset)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	page := make([]dataset.PriceRow, 0, limit)
	for rows.Next() {
		var (
			row      dataset.PriceRow
			openp    sql.NullFloat64
			high     sql.NullFloat64
			low      sql.NullFloat64
			closep   sql.NullFloat64
			volume   sql.NullInt64
			sector   sql.NullString
			category sql.NullString
		)
		if err := rows.Scan(&row.Date, &row.TradingCode, &openp, &high, &low, &closep, &volume, &sector, &category); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		row.Openp = nullFloat(openp)
		row.High = nullFloat(high)
		row.Low = nullFloat(low)
		row.Closep = nullFloat(closep)
		row.Volume = nullInt(volume)
		row.Sector = nullString(sector)
		row.Category = nullString(category)
		page = append(page, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	return page, nil
}

// Range returns the min and max observation dates over the whole live table
func (s *Store) Range(ctx context.Context) (DateRange, error) {
	var minDate, maxDate sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT MIN(date), MAX(date) FROM `+factTable,
	).Scan(&minDate, &maxDate)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	var dr DateRange
	if minDate.Valid {
		dr.MinDate = minDate.Time.Format(dataset.DateLayout)
	}
	if maxDate.Valid {
		dr.MaxDate = maxDate.Time.Format(dataset.DateLayout)
	}
	return dr, nil
}

// Sectors returns the distinct non-null sector labels from the mapper table
func (s *Store) Sectors(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx,
		`SELECT DISTINCT sector FROM `+referenceTable+` WHERE sector IS NOT NULL ORDER BY sector`)
}

// TradingCodes returns all trading codes from the mapper table, ascending
func (s *Store) TradingCodes(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx,
		`SELECT trading_code FROM `+referenceTable+` ORDER BY trading_code ASC`)
}

func (s *Store) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return out, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
