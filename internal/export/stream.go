package export

import (
	"context"
	"io"

	"databazar/internal/dataset"
)

// PageSize is the fixed number of rows fetched per data-source call
const PageSize = 1000

// PageFetcher is the data-source contract the stream pulls pages from
type PageFetcher interface {
	FetchPage(ctx context.Context, f dataset.Filter, offset, limit uint) ([]dataset.PriceRow, error)
}

// Stream produces a finite, non-restartable lazy sequence of CSV byte
// chunks: one chunk per page, the first non-empty chunk carrying the header
// row. The caller pulls chunks with Next and writes each one out before
// pulling the next, so at most one page is ever buffered.
type Stream struct {
	fetcher  PageFetcher
	filter   dataset.Filter
	pageSize uint

	offset     uint
	headerSent bool
	done       bool
}

// NewStream creates an export stream for the filter using the fixed page size
func NewStream(fetcher PageFetcher, filter dataset.Filter) *Stream {
	return newStream(fetcher, filter, PageSize)
}

func newStream(fetcher PageFetcher, filter dataset.Filter, pageSize uint) *Stream {
	exportsStarted.Inc()
	return &Stream{
		fetcher:  fetcher,
		filter:   filter,
		pageSize: pageSize,
	}
}

// Next returns the next CSV chunk, or io.EOF once the source is exhausted.
// A fetch error is terminal: it is returned once and the stream stays done.
// Context cancellation (client disconnect) stops fetching further pages.
func (s *Stream) Next(ctx context.Context) ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		s.done = true
		return nil, err
	}

	rows, err := s.fetcher.FetchPage(ctx, s.filter, s.offset, s.pageSize)
	if err != nil {
		s.done = true
		exportsFailed.Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	pagesFetched.Inc()

	if len(rows) == 0 {
		s.done = true
		exportsCompleted.Inc()
		return nil, io.EOF
	}

	records := make([]*dataset.Record, len(rows))
	for i, row := range rows {
		records[i] = dataset.Project(dataset.Flatten(row), s.filter.Fields)
	}

	chunk, err := EncodePage(records, !s.headerSent)
	if err != nil {
		s.done = true
		exportsFailed.Inc()
		return nil, err
	}
	s.headerSent = true
	rowsStreamed.Add(float64(len(rows)))

	// A short page implies exhaustion, saving one extra round trip
	if uint(len(rows)) < s.pageSize {
		s.done = true
		exportsCompleted.Inc()
	}
	s.offset += s.pageSize

	return chunk, nil
}
