// Package content resolves where the bytes of a stored file come from and
// saves them locally.
//
// A file can be fetched straight from its S3 bucket (when the client has
// object storage credentials), from the presigned preview URL in its listing
// record, or through the API's download endpoint. Chain tries them in that
// order.
package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophstorage/internal/client/models"
	"github.com/dmitrijs2005/gophstorage/internal/logging"
	"github.com/dmitrijs2005/gophstorage/internal/netx"
)

// ErrNotApplicable is returned by a Source that cannot serve a record,
// e.g. the preview source for a record without previewUrl.
var ErrNotApplicable = errors.New("source not applicable")

// Source fetches the bytes of one stored file.
type Source interface {
	Name() string
	Fetch(ctx context.Context, f models.StorageFile) ([]byte, error)
}

// Chain tries each source in turn and returns the first success. A failing
// source is logged and the next one is tried.
type Chain struct {
	sources []Source
	logger  logging.Logger
}

func NewChain(logger logging.Logger, sources ...Source) *Chain {
	if logger == nil {
		logger = logging.Discard()
	}
	var kept []Source
	for _, s := range sources {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Chain{sources: kept, logger: logger}
}

func (c *Chain) Fetch(ctx context.Context, f models.StorageFile) ([]byte, error) {
	var errs []error
	for _, src := range c.sources {
		data, err := src.Fetch(ctx, f)
		if err == nil {
			c.logger.Debug(ctx, "content fetched", "source", src.Name(), "object_id", f.ObjectID, "size", len(data))
			return data, nil
		}
		if errors.Is(err, ErrNotApplicable) {
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn(ctx, "content source failed", "source", src.Name(), "object_id", f.ObjectID, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("no source can serve %s", f.ObjectID)
	}
	return nil, errors.Join(errs...)
}

// PresignedSource downloads the record's previewUrl.
type PresignedSource struct {
	client *http.Client
}

// NewPresignedSource uses hc for downloads; nil means http.DefaultClient.
// The client must not add API credentials: presigned URLs carry their own.
func NewPresignedSource(hc *http.Client) *PresignedSource {
	return &PresignedSource{client: hc}
}

func (s *PresignedSource) Name() string { return "preview-url" }

func (s *PresignedSource) Fetch(ctx context.Context, f models.StorageFile) ([]byte, error) {
	if f.PreviewURL == "" {
		return nil, ErrNotApplicable
	}
	return netx.DownloadPresignedURL(ctx, s.client, f.PreviewURL)
}

// Downloader is the API download endpoint.
type Downloader interface {
	DownloadFile(ctx context.Context, id string) ([]byte, error)
}

// APISource fetches through GET /storage/files/{id}/download.
type APISource struct {
	api Downloader
}

func NewAPISource(api Downloader) *APISource {
	return &APISource{api: api}
}

func (s *APISource) Name() string { return "api" }

func (s *APISource) Fetch(ctx context.Context, f models.StorageFile) ([]byte, error) {
	if f.ObjectID == "" {
		return nil, ErrNotApplicable
	}
	return s.api.DownloadFile(ctx, f.ObjectID)
}
