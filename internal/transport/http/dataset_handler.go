package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"databazar/internal/auth"
	"databazar/internal/catalog"
	"databazar/internal/dataset"
	apierrors "databazar/internal/errors"
	"databazar/internal/export"
	"databazar/internal/middleware"
	"databazar/internal/store"
)

// previewLimit caps the unauthenticated JSON preview
const previewLimit = 3

// exportFilename is the attachment name for live CSV exports
const exportFilename = "dsex_prices_export.csv"

// DatasetHandler serves the catalog endpoint: listing, fixture previews,
// and the live dataset's preview/meta/export modes.
type DatasetHandler struct {
	store    DataStore
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewDatasetHandler creates a dataset handler
func NewDatasetHandler(store DataStore, verifier TokenVerifier, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{
		store:    store,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "dataset_handler")),
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	return r
}

// Get handles GET /api/datasets. Routing is driven by query parameters:
// slug selects the dataset, mode=meta and format=csv select live modes,
// no slug (or an unknown one) falls back to the catalog listing.
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")

	if catalog.IsLive(slug) {
		h.serveLive(w, r)
		return
	}

	if d, ok := catalog.Find(slug); ok {
		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Write([]byte(catalog.MockCSV))
			return
		}
		preview := d.Preview
		if preview == nil {
			preview = []map[string]any{}
		}
		render.JSON(w, r, preview)
		return
	}

	render.JSON(w, r, catalog.All())
}

func (h *DatasetHandler) serveLive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	if query.Get("mode") == "meta" {
		dr, err := h.store.Range(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "date range query failed", slog.String("error", err.Error()))
			apierrors.Respond(w, r, apierrors.SourceUnavailableError(err))
			return
		}
		render.JSON(w, r, dr)
		return
	}

	if query.Get("format") == "csv" {
		h.export(w, r)
		return
	}

	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	h.preview(w, r, f)
}

// parseFilter validates query parameters, writing a 400 on failure
func (h *DatasetHandler) parseFilter(w http.ResponseWriter, r *http.Request) (dataset.Filter, bool) {
	f, err := dataset.ParseFilter(r.URL.Query())
	if err != nil {
		var fe *dataset.FilterError
		if errors.As(err, &fe) {
			apierrors.Respond(w, r, apierrors.InvalidFilterError(fe.Param, fe.Reason))
		} else {
			apierrors.Respond(w, r, apierrors.ErrInvalidFilter)
		}
		return dataset.Filter{}, false
	}
	return f, true
}

// preview returns at most three rows as a JSON array; no authorization
func (h *DatasetHandler) preview(w http.ResponseWriter, r *http.Request, f dataset.Filter) {
	ctx := r.Context()

	rows, err := h.store.FetchPage(ctx, f, 0, previewLimit)
	if err != nil {
		h.logger.ErrorContext(ctx, "preview fetch failed",
			slog.String("request_id", middleware.GetReqID(ctx)),
			slog.String("error", err.Error()),
		)
		apierrors.Respond(w, r, apierrors.SourceUnavailableError(err))
		return
	}

	records := make([]*dataset.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, dataset.Flatten(row))
	}
	render.JSON(w, r, records)
}

// export authenticates the caller once at request entry, then streams the
// full filtered extract page by page. A source failure before the first
// byte yields a 500 JSON body; a failure mid-stream aborts the response.
func (h *DatasetHandler) export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	token, ok := auth.BearerToken(r)
	if !ok {
		apierrors.Respond(w, r, apierrors.UnauthorizedError("missing bearer token"))
		return
	}

	user, err := h.verifier.VerifyToken(ctx, token)
	if err != nil {
		h.logger.WarnContext(ctx, "export auth failed",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()),
		)
		apierrors.Respond(w, r, apierrors.UnauthorizedError("invalid or expired token"))
		return
	}

	f, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(ctx, "export started",
		slog.String("request_id", reqID),
		slog.String("user_id", user.ID),
		slog.String("sector", f.Sector),
		slog.String("trading_code", f.TradingCode),
	)

	stream := export.NewStream(h.store, f)

	// Fetch the first chunk before committing to a CSV response so source
	// failures can still produce a proper error body.
	first, err := stream.Next(ctx)
	if err != nil && err != io.EOF {
		h.logger.ErrorContext(ctx, "export failed before streaming",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, store.ErrSourceUnavailable) {
			apierrors.Respond(w, r, apierrors.SourceUnavailableError(err))
		} else {
			apierrors.Respond(w, r, apierrors.ErrInternalServer)
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)

	if err == io.EOF {
		// Zero matching rows: a valid, fully-formed empty export
		w.WriteHeader(http.StatusOK)
		return
	}

	flusher, _ := w.(http.Flusher)
	chunk := first
	for {
		if _, werr := w.Write(chunk); werr != nil {
			// Client went away; the next stream.Next sees the cancelled
			// context and stops fetching.
			h.logger.InfoContext(ctx, "export client disconnected",
				slog.String("request_id", reqID),
			)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}

		chunk, err = stream.Next(ctx)
		if err == io.EOF {
			h.logger.InfoContext(ctx, "export completed",
				slog.String("request_id", reqID),
				slog.String("user_id", user.ID),
			)
			return
		}
		if err != nil {
			// Headers are long gone; all we can do is truncate the stream
			if ctx.Err() != nil {
				h.logger.InfoContext(ctx, "export cancelled",
					slog.String("request_id", reqID),
				)
				return
			}
			h.logger.ErrorContext(ctx, "export aborted mid-stream",
				slog.String("request_id", reqID),
				slog.String("error", err.Error()),
			)
			return
		}
	}
}
