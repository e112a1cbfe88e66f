package models

import "time"

// StorageFile is the server-owned metadata of one uploaded file. Field names
// mirror the JSON emitted by the storage API.
type StorageFile struct {
	ObjectID    string    `json:"ObjectID"`
	UserID      string    `json:"UserID"`
	FileName    string    `json:"FileName"`
	FileSize    int64     `json:"FileSize"`
	ContentType string    `json:"ContentType"`
	S3Key       string    `json:"S3Key,omitempty"`
	S3Bucket    string    `json:"S3Bucket,omitempty"`
	UploadedAt  time.Time `json:"UploadedAt"`
	UpdatedAt   time.Time `json:"UpdatedAt"`
	Description *string   `json:"Description"`
	PreviewURL  string    `json:"previewUrl,omitempty"`
}

// DescriptionText returns the description or an empty string.
func (f StorageFile) DescriptionText() string {
	if f.Description == nil {
		return ""
	}
	return *f.Description
}

// UploadResult is the record returned after a successful upload.
type UploadResult struct {
	ObjectID    string    `json:"objectId"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	ContentType string    `json:"contentType"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Description *string   `json:"description,omitempty"`
	Message     string    `json:"message"`
}

// LocalFile is an upload payload read from the local machine.
type LocalFile struct {
	Name        string
	ContentType string
	Data        []byte
}
