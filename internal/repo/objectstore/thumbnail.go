package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
)

const ThumbnailBucket = "asset-thumbnails"

var ErrNotAnImage = errors.New("thumbnail is not an image")

type Thumbnails struct {
	minioClient *minio.Client
	bucket      string
	publicURL   string
}

// NewThumbnails создаёт бакет превью, если его ещё нет.
// publicURL - адрес, по которому бакет раздаётся наружу, например https://cdn.example.com
func NewThumbnails(ctx context.Context, minioClient *minio.Client, publicURL string) (repo.Thumbnail, error) {
	exists, err := minioClient.BucketExists(ctx, ThumbnailBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = minioClient.MakeBucket(ctx, ThumbnailBucket, minio.MakeBucketOptions{
			Region: "eu-central-1",
		})
		if err != nil {
			return nil, err
		}
	}
	return &Thumbnails{
		minioClient: minioClient,
		bucket:      ThumbnailBucket,
		publicURL:   strings.TrimRight(publicURL, "/"),
	}, nil
}

func (t *Thumbnails) SaveThumbnail(ctx context.Context, assetID int, data []byte) (string, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotAnImage, mime.String())
	}
	objectName := fmt.Sprintf("asset-%d%s", assetID, mime.Extension())
	_, err := t.minioClient.PutObject(
		ctx,
		t.bucket,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: mime.String(),
		},
	)
	if err != nil {
		return "", err
	}
	return t.objectPrefix() + objectName, nil
}

func (t *Thumbnails) Owns(thumbnailURL string) bool {
	return strings.HasPrefix(thumbnailURL, t.objectPrefix())
}

func (t *Thumbnails) objectPrefix() string {
	return t.publicURL + "/" + t.bucket + "/"
}
