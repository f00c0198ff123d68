package storage

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const openPostFolder = "open-posts"

// StorageService uploads booking attachments and resolves their URLs.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, string, error)
	DeleteFile(ctx context.Context, publicID string) error
	UploadImage(ctx context.Context, ref string) (string, error)
}

// StorageServiceImpl is the Cloudinary-backed implementation.
type StorageServiceImpl struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(cld *cloudinary.Cloudinary, cloudName string) StorageService {
	return &StorageServiceImpl{
		cld:       cld,
		cloudName: cloudName,
	}
}

// UploadFile uploads a file into the specified folder and returns the
// permanent identifier plus the delivery URL.
func (s *StorageServiceImpl) UploadFile(ctx context.Context, localFilePath, destFolder string) (string, string, error) {
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploader.UploadParams{
		Folder: destFolder,
	})
	if err != nil {
		return "", "", fmt.Errorf("StorageServiceImpl: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return "", "", fmt.Errorf("StorageServiceImpl: no public ID returned")
	}
	return result.PublicID, result.SecureURL, nil
}

// DeleteFile deletes a file given its public ID.
func (s *StorageServiceImpl) DeleteFile(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("StorageServiceImpl: failed to delete file: %w", err)
	}
	return nil
}

// UploadImage uploads one open-post attachment and returns its stable URL.
// The assembler calls this once per image, strictly in order.
func (s *StorageServiceImpl) UploadImage(ctx context.Context, ref string) (string, error) {
	_, url, err := s.UploadFile(ctx, ref, openPostFolder)
	if err != nil {
		return "", err
	}
	return url, nil
}
