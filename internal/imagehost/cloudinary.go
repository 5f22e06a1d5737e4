package imagehost

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/metrics"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const DefaultFolder = "my_uploads"

type uploadFunc func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)

// Cloudinary uploads images into one folder of a Cloudinary account.
type Cloudinary struct {
	upload uploadFunc
	folder string
}

// NewCloudinary expects a cloudinary://<key>:<secret>@<cloud> URL.
func NewCloudinary(cloudinaryURL, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return newCloudinary(cld.Upload.Upload, folder), nil
}

func newCloudinary(upload uploadFunc, folder string) *Cloudinary {
	if folder == "" {
		folder = DefaultFolder
	}
	return &Cloudinary{upload: upload, folder: folder}
}

// Upload streams r to Cloudinary and returns the secure URL of the stored asset.
func (c *Cloudinary) Upload(ctx context.Context, _ string, r io.Reader) (secureURL string, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.UpstreamRequestDuration.WithLabelValues("cloudinary", outcome).Observe(time.Since(start).Seconds())
	}()

	res, err := c.upload(ctx, r, uploader.UploadParams{Folder: c.folder})
	if err != nil {
		return "", fmt.Errorf("%w: cloudinary upload: %v", domain.ErrUpstream, err)
	}
	if res == nil {
		return "", fmt.Errorf("%w: cloudinary upload: empty response", domain.ErrUpstream)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("%w: cloudinary upload: %s", domain.ErrUpstream, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("%w: cloudinary upload: no url returned", domain.ErrUpstream)
	}
	return res.SecureURL, nil
}

// Unconfigured rejects every upload. Used in local development without Cloudinary credentials.
type Unconfigured struct{}

func (Unconfigured) Upload(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", fmt.Errorf("%w: image host is not configured", domain.ErrUpstream)
}
