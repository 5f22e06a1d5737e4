package imagehost

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

func TestUpload_ReturnsSecureURLAndUsesFolder(t *testing.T) {
	var gotFolder string
	var gotBytes string
	host := newCloudinary(func(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
		gotFolder = params.Folder
		b, _ := io.ReadAll(file.(io.Reader))
		gotBytes = string(b)
		return &uploader.UploadResult{SecureURL: "https://res.example.test/img/1.png"}, nil
	}, "")

	url, err := host.Upload(context.Background(), "1.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://res.example.test/img/1.png" {
		t.Errorf("url = %q", url)
	}
	if gotFolder != DefaultFolder {
		t.Errorf("folder = %q, want %q", gotFolder, DefaultFolder)
	}
	if gotBytes != "png-bytes" {
		t.Errorf("uploaded %q, want png-bytes", gotBytes)
	}
}

func TestUpload_TransportError_ReturnsErrUpstream(t *testing.T) {
	host := newCloudinary(func(context.Context, interface{}, uploader.UploadParams) (*uploader.UploadResult, error) {
		return nil, errors.New("connection reset")
	}, "art")

	if _, err := host.Upload(context.Background(), "x", strings.NewReader("x")); !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("want ErrUpstream, got %v", err)
	}
}

func TestUpload_APIError_ReturnsErrUpstream(t *testing.T) {
	host := newCloudinary(func(context.Context, interface{}, uploader.UploadParams) (*uploader.UploadResult, error) {
		return &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}, nil
	}, "art")

	_, err := host.Upload(context.Background(), "x", strings.NewReader("x"))
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid image file") {
		t.Errorf("error %q does not carry the API message", err)
	}
}

func TestUnconfigured_AlwaysFails(t *testing.T) {
	if _, err := (Unconfigured{}).Upload(context.Background(), "x", strings.NewReader("x")); !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("want ErrUpstream, got %v", err)
	}
}
