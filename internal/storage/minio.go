package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// 允许上传的附件类型
const (
	KindImage = "image"
	KindVoice = "voice"
)

var ErrUnsupportedType = errors.New("unsupported media type")

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Uploaded 上传结果
type Uploaded struct {
	Kind        string `json:"kind"`
	ObjectName  string `json:"objectName"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}

type MinIOStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewMinIOStorage(ctx context.Context, cfg Config) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}
	return &MinIOStorage{client: client, bucket: cfg.Bucket, publicURL: cfg.PublicURL, now: time.Now}, nil
}

// Upload 上传评论附件，按类型和日期分目录
func (s *MinIOStorage) Upload(ctx context.Context, ownerID, fileName, contentType string, file io.Reader, size int64) (*Uploaded, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(ext)
	}
	kind, err := KindOf(contentType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	objectName := fmt.Sprintf("%s/%d/%02d/%s%s", kind, now.Year(), now.Month(), uuid.NewString(), ext)

	_, err = s.client.PutObject(ctx, s.bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": fileName,
			"owner-id":          ownerID,
			"uploaded-at":       now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("minio upload: %w", err)
	}

	return &Uploaded{
		Kind:        kind,
		ObjectName:  objectName,
		URL:         fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName),
		ContentType: contentType,
	}, nil
}

func (s *MinIOStorage) Delete(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete: %w", err)
	}
	return nil
}

// KindOf 根据 Content-Type 判断附件类型
func KindOf(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ErrUnsupportedType
	}
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return KindImage, nil
	case strings.HasPrefix(mediaType, "audio/"):
		return KindVoice, nil
	default:
		return "", ErrUnsupportedType
	}
}
