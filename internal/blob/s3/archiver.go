package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oddslip/oddslip/internal/domain"
)

// multipartThreshold is the payload size above which the archiver switches
// from a single PutObject to a managed multipart upload.
const multipartThreshold = 32 * 1024 * 1024

// QuoteArchiveStore is the narrow read surface the archiver needs from the
// quote store.
type QuoteArchiveStore interface {
	ListCapturedBetween(ctx context.Context, from, to time.Time) ([]domain.RawQuote, error)
}

// QuoteArchiver implements domain.Archiver by reading aged quote snapshots
// from the store, serializing them to JSONL, and uploading the result to
// object storage.
//
// Deleting the archived rows from the primary store is intentionally NOT done
// here; the pipeline purges only after the upload has succeeded.
type QuoteArchiver struct {
	writer domain.BlobWriter
	quotes QuoteArchiveStore
}

// NewQuoteArchiver creates a QuoteArchiver.
func NewQuoteArchiver(writer domain.BlobWriter, quotes QuoteArchiveStore) *QuoteArchiver {
	return &QuoteArchiver{
		writer: writer,
		quotes: quotes,
	}
}

// ArchiveQuotes uploads every snapshot captured inside [from, to) to
// archive/quotes/YYYY-MM-DD/HHMM-HHMM.jsonl and returns the number of records
// written. A window with no snapshots uploads nothing and returns zero.
func (a *QuoteArchiver) ArchiveQuotes(ctx context.Context, from, to time.Time) (int64, error) {
	quotes, err := a.quotes.ListCapturedBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive quotes query: %w", err)
	}
	if len(quotes) == 0 {
		return 0, nil
	}

	// A zero from means "everything so far"; name the object after the
	// earliest record actually captured (the list is oldest-first).
	if from.IsZero() {
		from = quotes[0].CapturedAt
	}

	buf, err := marshalJSONL(quotes)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive quotes marshal: %w", err)
	}

	path := archivePath(from, to)
	if int64(len(buf)) >= multipartThreshold {
		err = a.writer.PutMultipart(ctx, path, bytes.NewReader(buf), 0)
	} else {
		err = a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson")
	}
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive quotes upload: %w", err)
	}

	return int64(len(quotes)), nil
}

// archivePath builds the object key for an archive window, partitioned by the
// window's start day.
//
//	archive/quotes/2026-03-14/0000-0600.jsonl
func archivePath(from, to time.Time) string {
	return fmt.Sprintf("archive/quotes/%s/%s-%s.jsonl",
		from.UTC().Format("2006-01-02"),
		from.UTC().Format("1504"),
		to.UTC().Format("1504"),
	)
}

// marshalJSONL serialises a slice of values as newline-delimited JSON.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// Compile-time interface check.
var _ domain.Archiver = (*QuoteArchiver)(nil)
