package client

import (
	"context"

	"github.com/dmitrijs2005/gophstorage/internal/client/models"
)

// AuthAPI covers the unauthenticated account endpoints.
type AuthAPI interface {
	Register(ctx context.Context, name, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (string, *models.User, error)
}

// StorageAPI covers the bearer-protected storage endpoints. Implementations
// obtain the token themselves (see HTTPClient.Authorized).
type StorageAPI interface {
	ListFiles(ctx context.Context) ([]models.StorageFile, error)
	UploadFile(ctx context.Context, file models.LocalFile, description string) (*models.UploadResult, error)
	DeleteFile(ctx context.Context, id string) error
	DownloadFile(ctx context.Context, id string) ([]byte, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

// Client is the full REST surface of the storage backend.
type Client interface {
	AuthAPI
	StorageAPI
}
