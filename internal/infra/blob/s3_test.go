package blob

import (
	"context"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/curiomuse/artefact-catalog/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestS3(t *testing.T, cfg config.StorageConfig) *S3Deps {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.AccessKey == "" {
		cfg.AccessKey = "test-access-key"
		cfg.SecretKey = "test-secret-key"
	}

	deps, err := NewS3(context.Background(), cfg, zap.NewNop())
	assert.NoError(t, err)
	return deps
}

func TestS3_BucketNotConfigured(t *testing.T) {
	// No bucket configured: every operation must fail with the configuration
	// error before any network call is attempted.
	deps := newTestS3(t, config.StorageConfig{})
	ctx := context.Background()

	_, err := deps.Upload(ctx, strings.NewReader("x"), "text/plain", "", "models")
	assert.ErrorIs(t, err, ErrBucketNotConfigured)

	_, err = deps.UploadFormFile(ctx, "images", &multipart.FileHeader{})
	assert.ErrorIs(t, err, ErrBucketNotConfigured)

	_, err = deps.PreviewURL(ctx, "file-1", 0, 0)
	assert.ErrorIs(t, err, ErrBucketNotConfigured)

	_, err = deps.DownloadURL(ctx, "file-1")
	assert.ErrorIs(t, err, ErrBucketNotConfigured)

	_, err = deps.GetMetadata(ctx, "file-1")
	assert.ErrorIs(t, err, ErrBucketNotConfigured)

	_, err = deps.List(ctx, "")
	assert.ErrorIs(t, err, ErrBucketNotConfigured)

	assert.ErrorIs(t, deps.Delete(ctx, "file-1"), ErrBucketNotConfigured)

	_, err = deps.Replace(ctx, "file-1", strings.NewReader("x"), "text/plain")
	assert.ErrorIs(t, err, ErrBucketNotConfigured)
}

func TestS3_PreviewURL_PublicBase(t *testing.T) {
	deps := &S3Deps{
		bucket:        "artefacts",
		publicBaseURL: "https://cdn.example.com",
		log:           zap.NewNop(),
	}
	ctx := context.Background()

	tests := []struct {
		name     string
		fileID   string
		width    int
		height   int
		expected string
	}{
		{
			name:     "no dimensions",
			fileID:   "file-1",
			expected: "https://cdn.example.com/artefacts/file-1",
		},
		{
			name:     "both dimensions",
			fileID:   "file-1",
			width:    640,
			height:   480,
			expected: "https://cdn.example.com/artefacts/file-1?height=480&width=640",
		},
		{
			name:     "width only",
			fileID:   "file-1",
			width:    200,
			expected: "https://cdn.example.com/artefacts/file-1?width=200",
		},
		{
			name:     "file id is path-escaped",
			fileID:   "a b",
			expected: "https://cdn.example.com/artefacts/a%20b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := deps.PreviewURL(ctx, tt.fileID, tt.width, tt.height)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, url)
		})
	}
}

func TestS3_PreviewURL_TrimsBaseSlash(t *testing.T) {
	deps := newTestS3(t, config.StorageConfig{
		Bucket:        "artefacts",
		PublicBaseURL: "https://cdn.example.com/",
	})

	url, err := deps.PreviewURL(context.Background(), "file-1", 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/artefacts/file-1", url)
}

func TestS3_DownloadURL_Presigned(t *testing.T) {
	// Presigning is local; no store round trip happens here.
	deps := newTestS3(t, config.StorageConfig{
		Endpoint:     "http://localhost:9000",
		Bucket:       "artefacts",
		UsePathStyle: true,
		PresignTTL:   time.Minute,
	})

	url, err := deps.DownloadURL(context.Background(), "file-1")
	assert.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/artefacts/file-1")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "response-content-disposition=")
}

func TestS3_PreviewURL_PresignedFallback(t *testing.T) {
	// Without a public base URL the preview falls back to a presigned inline
	// GET and the dimensions are not encoded.
	deps := newTestS3(t, config.StorageConfig{
		Endpoint:     "http://localhost:9000",
		Bucket:       "artefacts",
		UsePathStyle: true,
	})

	url, err := deps.PreviewURL(context.Background(), "file-1", 640, 480)
	assert.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/artefacts/file-1")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.NotContains(t, url, "width")
	assert.NotContains(t, url, "height")
}
