package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/curiomuse/artefact-catalog/internal/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.uber.org/zap"
)

// ErrBucketNotConfigured is returned by every storage operation when no bucket
// id was configured. The check runs before any network call.
var ErrBucketNotConfigured = errors.New("storage bucket is not configured")

// UploadedMeta describes one object written to the store.
type UploadedMeta struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	ETag   string `json:"etag"`
	SHA256 string `json:"sha256"`
	MIME   string `json:"mime"`
	SizeB  int64  `json:"size_b"`
}

// FileInfo is the metadata view of one stored object.
type FileInfo struct {
	ID           string    `json:"id"`
	Folder       string    `json:"folder,omitempty"`
	MIME         string    `json:"mime,omitempty"`
	SizeB        int64     `json:"size_b"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// S3Deps bundles the S3 clients for one bucket. Objects are keyed by file id
// alone; the logical folder is informational and kept as object metadata.
type S3Deps struct {
	client        *s3.Client
	presign       *s3.PresignClient
	uploader      *manager.Uploader
	bucket        string
	publicBaseURL string
	presignTTL    time.Duration
	log           *zap.Logger
}

func NewS3(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*S3Deps, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &S3Deps{
		client:        client,
		presign:       s3.NewPresignClient(client),
		uploader:      manager.NewUploader(client),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		presignTTL:    ttl,
		log:           log,
	}, nil
}

func (d *S3Deps) checkBucket() error {
	if d.bucket == "" {
		return ErrBucketNotConfigured
	}
	return nil
}

// Upload writes content under the given name, or under a fresh id when name is
// empty, and returns the id the object is keyed by.
func (d *S3Deps) Upload(ctx context.Context, r io.Reader, contentType, name, folder string) (string, error) {
	if err := d.checkBucket(); err != nil {
		return "", err
	}

	fileID := name
	if fileID == "" {
		fileID = uuid.NewString()
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(fileID),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if folder != "" {
		input.Metadata = map[string]string{"folder": folder}
	}

	if _, err := d.uploader.Upload(ctx, input); err != nil {
		return "", err
	}
	return fileID, nil
}

// UploadFormFile streams one multipart part into the store under a fresh id,
// sniffing the MIME type when the part did not declare one.
func (d *S3Deps) UploadFormFile(ctx context.Context, folder string, fh *multipart.FileHeader) (*UploadedMeta, error) {
	if err := d.checkBucket(); err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open multipart file: %w", err)
	}
	defer f.Close()

	mime := fh.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		if mt, derr := mimetype.DetectReader(f); derr == nil {
			mime = mt.String()
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind multipart file: %w", err)
		}
	}

	fileID := uuid.NewString()
	digest := sha256.New()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(fileID),
		Body:        io.TeeReader(f, digest),
		ContentType: aws.String(mime),
	}
	if folder != "" {
		input.Metadata = map[string]string{"folder": folder}
	}

	out, err := d.uploader.Upload(ctx, input)
	if err != nil {
		return nil, err
	}

	return &UploadedMeta{
		Bucket: d.bucket,
		Key:    fileID,
		ETag:   strings.Trim(aws.ToString(out.ETag), `"`),
		SHA256: hex.EncodeToString(digest.Sum(nil)),
		MIME:   mime,
		SizeB:  fh.Size,
	}, nil
}

// PreviewURL derives a display URL for the object. With a public base URL
// configured the result is a plain derivation carrying the requested
// dimensions; otherwise it falls back to a presigned inline GET (signing is
// local, no network round trip) and the dimensions are not encoded.
func (d *S3Deps) PreviewURL(ctx context.Context, fileID string, width, height int) (string, error) {
	if err := d.checkBucket(); err != nil {
		return "", err
	}

	if d.publicBaseURL != "" {
		q := url.Values{}
		if width > 0 {
			q.Set("width", strconv.Itoa(width))
		}
		if height > 0 {
			q.Set("height", strconv.Itoa(height))
		}
		u := fmt.Sprintf("%s/%s/%s", d.publicBaseURL, d.bucket, url.PathEscape(fileID))
		if enc := q.Encode(); enc != "" {
			u += "?" + enc
		}
		return u, nil
	}

	req, err := d.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(d.bucket),
		Key:                        aws.String(fileID),
		ResponseContentDisposition: aws.String("inline"),
	}, s3.WithPresignExpires(d.presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// DownloadURL derives a presigned download URL for the object. Signing is
// local; only configuration errors are expected.
func (d *S3Deps) DownloadURL(ctx context.Context, fileID string) (string, error) {
	if err := d.checkBucket(); err != nil {
		return "", err
	}

	req, err := d.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(d.bucket),
		Key:                        aws.String(fileID),
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", fileID)),
	}, s3.WithPresignExpires(d.presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (d *S3Deps) GetMetadata(ctx context.Context, fileID string) (*FileInfo, error) {
	if err := d.checkBucket(); err != nil {
		return nil, err
	}

	out, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		ID:           fileID,
		Folder:       out.Metadata["folder"],
		MIME:         aws.ToString(out.ContentType),
		SizeB:        aws.ToInt64(out.ContentLength),
		ETag:         strings.Trim(aws.ToString(out.ETag), `"`),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

func (d *S3Deps) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	if err := d.checkBucket(); err != nil {
		return nil, err
	}

	input := &s3.ListObjectsV2Input{Bucket: aws.String(d.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var files []FileInfo
	paginator := s3.NewListObjectsV2Paginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			files = append(files, FileInfo{
				ID:           aws.ToString(obj.Key),
				SizeB:        aws.ToInt64(obj.Size),
				ETag:         strings.Trim(aws.ToString(obj.ETag), `"`),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return files, nil
}

// Delete removes one object. The store accepts deletes of absent keys, but
// callers must not rely on that here.
func (d *S3Deps) Delete(ctx context.Context, fileID string) error {
	if err := d.checkBucket(); err != nil {
		return err
	}

	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(fileID),
	})
	return err
}

// Replace rebinds fileID to new content: a best-effort delete (failures are
// logged and swallowed) followed by an unconditional create under the same id.
// The two steps are not atomic; a failure in between leaves the id unbound.
func (d *S3Deps) Replace(ctx context.Context, fileID string, r io.Reader, contentType string) (string, error) {
	if err := d.checkBucket(); err != nil {
		return "", err
	}

	if err := d.Delete(ctx, fileID); err != nil {
		d.log.Warn("best-effort delete before replace failed",
			zap.String("file_id", fileID), zap.Error(err))
	}

	return d.Upload(ctx, r, contentType, fileID, "")
}
