package http

import (
	"context"

	"databazar/internal/auth"
	"databazar/internal/dataset"
	"databazar/internal/store"
)

// DataStore is the handler's view of the tabular data source adapter
type DataStore interface {
	FetchPage(ctx context.Context, f dataset.Filter, offset, limit uint) ([]dataset.PriceRow, error)
	Range(ctx context.Context) (store.DateRange, error)
	Sectors(ctx context.Context) ([]string, error)
	TradingCodes(ctx context.Context) ([]string, error)
}

// TokenVerifier validates bearer credentials against the auth provider
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*auth.User, error)
}

// Pinger reports data source reachability for readiness checks
type Pinger interface {
	PingContext(ctx context.Context) error
}
