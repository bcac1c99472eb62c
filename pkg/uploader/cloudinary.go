package uploader

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader pushes media files to Cloudinary
type Uploader struct {
	client *cloudinary.Cloudinary
	folder string
}

// New creates an Uploader from a CLOUDINARY_URL-style connection string
func New(cloudinaryURL, folder string) (*Uploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &Uploader{client: cld, folder: folder}, nil
}

// UploadFile uploads a multipart file and returns its public URL.
// Cloudinary detects the resource type, so the same path serves videos
// and image thumbnails.
func (u *Uploader) UploadFile(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	result, err := u.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       u.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return result.SecureURL, nil
}
