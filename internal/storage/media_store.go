package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/blsantos/InfiniteVideoWall/internal/config"
)

// MediaStore stages raw testimony uploads on local disk before they are
// pushed to the external host, and optionally keeps an archival copy in
// object storage. Staged files are single-owner: the request that staged
// a file removes it after a successful push or on any error. A crash
// between push and removal leaves an orphan on disk; orphans are not
// retried or cleaned automatically.
type MediaStore struct {
	tempDir    string
	client     *minio.Client
	bucketName string
}

// NewMediaStore creates the staging directory and, when archiving is
// enabled, the MinIO client and bucket.
func NewMediaStore(cfg config.UploadsConfig, storageCfg config.StorageConfig) (*MediaStore, error) {
	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}

	store := &MediaStore{tempDir: cfg.TempDir}

	if storageCfg.Enabled {
		client, err := minio.New(storageCfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(storageCfg.AccessKey, storageCfg.SecretKey, ""),
			Secure: storageCfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("creating MinIO client: %w", err)
		}

		exists, err := client.BucketExists(context.Background(), storageCfg.BucketName)
		if err != nil {
			return nil, fmt.Errorf("checking bucket: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(context.Background(), storageCfg.BucketName, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("creating bucket: %w", err)
			}
		}

		store.client = client
		store.bucketName = storageCfg.BucketName
	}

	return store, nil
}

// Stage writes an uploaded file to the staging directory under a unique
// name and returns its path.
func (s *MediaStore) Stage(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	path := filepath.Join(s.tempDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating staged file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing staged file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing staged file: %w", err)
	}

	return path, nil
}

// Discard removes a staged file. Missing files are not an error.
func (s *MediaStore) Discard(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ArchiveEnabled reports whether an object-storage archive is configured.
func (s *MediaStore) ArchiveEnabled() bool {
	return s.client != nil
}

// Archive copies a staged file into the archive bucket and returns the
// object key.
func (s *MediaStore) Archive(ctx context.Context, path, contentType string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("archive storage not configured")
	}

	objectKey := "testimonies/" + filepath.Base(path)
	_, err := s.client.FPutObject(ctx, s.bucketName, objectKey, path,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("archiving upload: %w", err)
	}
	return objectKey, nil
}
