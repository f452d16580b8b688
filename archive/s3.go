package archive

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"time"

	"Duet/core"
	"Duet/lib/sl"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Archive uploads delivered images to an S3-compatible bucket.
type S3Archive struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

func NewS3Archive(conf *core.Config, log *slog.Logger) (*S3Archive, error) {
	client, err := minio.New(conf.Archive.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.Archive.AccessKey, conf.Archive.SecretKey, ""),
		Secure: !conf.Archive.Insecure,
		Region: conf.Archive.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, conf.Archive.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", conf.Archive.Bucket)
	}

	return &S3Archive{
		client: client,
		bucket: conf.Archive.Bucket,
		log:    log.With(sl.Module("archive")),
	}, nil
}

func (a *S3Archive) Archive(ctx context.Context, userId int64, filePath string) error {
	key := ObjectKey(userId, uuid.NewString())

	info, err := a.client.FPutObject(ctx, a.bucket, key, filePath, minio.PutObjectOptions{
		ContentType:  "image/png",
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	a.log.With(
		sl.User(userId),
		slog.String("key", key),
		slog.Int64("size", info.Size),
	).Debug("image archived")
	return nil
}

// ObjectKey groups archived images by user.
func ObjectKey(userId int64, id string) string {
	return path.Join(strconv.FormatInt(userId, 10), id+".png")
}
