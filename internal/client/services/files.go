package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophstorage/internal/client/client"
	"github.com/dmitrijs2005/gophstorage/internal/client/models"
	"github.com/dmitrijs2005/gophstorage/internal/filex"
	"github.com/dmitrijs2005/gophstorage/internal/logging"
	"github.com/dmitrijs2005/gophstorage/internal/pagex"
)

var (
	ErrEmptyFile        = errors.New("file is empty")
	ErrUploadInProgress = errors.New("another upload is in progress")
	ErrFileNotFound     = errors.New("file not found in the current listing")
)

// ContentFetcher retrieves the bytes of a stored file.
type ContentFetcher interface {
	Fetch(ctx context.Context, f models.StorageFile) ([]byte, error)
}

// ContentSaver writes downloaded bytes under name and reports where they went.
type ContentSaver interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// FileState is a snapshot of the file collection store.
type FileState struct {
	Files     []models.StorageFile
	Loading   bool
	Uploading bool
	Err       error
}

// FileStore caches the signed-in user's file listing.
//
// Contract:
//   - Fetch: replace the whole listing with the server's. Failures are
//     recorded in the state (Err set, listing emptied), never returned.
//     When fetches overlap only the most recently started one is applied.
//   - Upload: send one file, then re-fetch. One upload at a time.
//   - Delete: remove on the server, then re-fetch. On failure the listing
//     is untouched.
//   - Download: save a listed file locally. The server is not changed.
type FileStore interface {
	Fetch(ctx context.Context)
	Upload(ctx context.Context, file models.LocalFile, description string) (*models.UploadResult, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id, filename string) (string, error)

	State() FileState
	// Page returns one page of the cached listing. Out-of-range page
	// numbers are clamped.
	Page(page int) ([]models.StorageFile, pagex.Page)
}

type fileStore struct {
	session SessionStore
	api     client.StorageAPI
	content ContentFetcher
	saver   ContentSaver
	perPage int
	logger  logging.Logger

	mu         sync.RWMutex
	files      []models.StorageFile
	loading    bool
	uploading  bool
	err        error
	generation uint64
}

// NewFileStore wires a FileStore. api must send the session's bearer token,
// see client.HTTPClient.Authorized.
func NewFileStore(session SessionStore, api client.StorageAPI, content ContentFetcher, saver ContentSaver,
	perPage int, logger logging.Logger) FileStore {
	if logger == nil {
		logger = logging.Discard()
	}
	if perPage <= 0 {
		perPage = pagex.DefaultPerPage
	}
	return &fileStore{
		session: session,
		api:     api,
		content: content,
		saver:   saver,
		perPage: perPage,
		logger:  logger,
		files:   []models.StorageFile{},
	}
}

func (s *fileStore) Fetch(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	files, err := s.list(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug(ctx, "discarding superseded file listing", "generation", gen, "current", s.generation)
		return
	}

	s.loading = false
	if err != nil {
		s.logger.Error(ctx, "storage fetch error", "error", err)
		s.err = err
		s.files = []models.StorageFile{}
		return
	}
	s.files = files
}

func (s *fileStore) list(ctx context.Context) ([]models.StorageFile, error) {
	if err := requireSession(ctx, s.session); err != nil {
		return nil, err
	}
	files, err := s.api.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []models.StorageFile{}
	}
	return files, nil
}

func (s *fileStore) Upload(ctx context.Context, file models.LocalFile, description string) (*models.UploadResult, error) {
	if len(file.Data) == 0 {
		return nil, ErrEmptyFile
	}

	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return nil, ErrUploadInProgress
	}
	s.uploading = true
	s.err = nil
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.uploading = false
		s.mu.Unlock()
	}()

	res, err := s.upload(ctx, file, description)
	if err != nil {
		s.logger.Error(ctx, "upload error", "file", file.Name, "error", err)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return nil, err
	}

	s.logger.Info(ctx, "upload successful", "object_id", res.ObjectID, "file", res.FileName)
	s.Fetch(ctx)
	return res, nil
}

func (s *fileStore) upload(ctx context.Context, file models.LocalFile, description string) (*models.UploadResult, error) {
	if err := requireSession(ctx, s.session); err != nil {
		return nil, err
	}
	if file.ContentType == "" {
		file.ContentType = filex.DetectContentType(file.Name, file.Data)
	}
	return s.api.UploadFile(ctx, file, description)
}

func (s *fileStore) Delete(ctx context.Context, id string) error {
	if err := requireSession(ctx, s.session); err != nil {
		return err
	}
	if err := s.api.DeleteFile(ctx, id); err != nil {
		s.logger.Warn(ctx, "delete failed", "object_id", id, "error", err)
		return err
	}

	s.logger.Info(ctx, "file deleted", "object_id", id)
	s.Fetch(ctx)
	return nil
}

func (s *fileStore) Download(ctx context.Context, id, filename string) (string, error) {
	f, ok := s.lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	if filename == "" {
		filename = f.FileName
	}
	name, err := filex.SafeName(filename)
	if err != nil {
		return "", err
	}

	data, err := s.content.Fetch(ctx, f)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", f.FileName, err)
	}

	location, err := s.saver.Save(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}

	s.logger.Info(ctx, "file downloaded", "object_id", id, "location", location, "size", len(data))
	return location, nil
}

func (s *fileStore) lookup(id string) (models.StorageFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.files, func(f models.StorageFile) bool { return f.ObjectID == id })
	if i < 0 {
		return models.StorageFile{}, false
	}
	return s.files[i], true
}

func (s *fileStore) State() FileState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FileState{
		Files:     slices.Clone(s.files),
		Loading:   s.loading,
		Uploading: s.uploading,
		Err:       s.err,
	}
}

func (s *fileStore) Page(page int) ([]models.StorageFile, pagex.Page) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, p := pagex.Slice(s.files, page, s.perPage)
	return slices.Clone(items), p
}
