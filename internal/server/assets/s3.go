// Package assets stores uploaded profile photos in S3-compatible object
// storage and returns their public URLs.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/falconusers/internal/common"
	sc "github.com/dmitrijs2005/falconusers/internal/server/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxPhotoSize bounds an uploaded photo.
const MaxPhotoSize = 5 << 20

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	timeNow = time.Now
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader uploads images to one bucket.
type S3Uploader struct {
	client    objectPutter
	bucket    string
	publicURL string
}

// NewS3Uploader builds an S3 client from the static credentials and
// endpoint in cfg. Path-style addressing is used so MinIO works unchanged.
func NewS3Uploader(ctx context.Context, cfg *sc.Config) (*S3Uploader, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Uploader{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(cfg.S3PublicURL, "/"),
	}, nil
}

// Upload stores blob under a fresh key and returns its public URL. Only
// images are accepted; the content type is sniffed from the bytes, not
// taken from the client.
func (u *S3Uploader) Upload(ctx context.Context, blob []byte) (string, error) {
	if len(blob) == 0 {
		return "", fmt.Errorf("%w: empty file", common.ErrValidation)
	}
	if len(blob) > MaxPhotoSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", common.ErrValidation, MaxPhotoSize)
	}

	mt := mimetype.Detect(blob)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: unsupported file type %s", common.ErrValidation, mt.String())
	}

	key := storageKey(mt.Extension())

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(blob),
		ContentType:   aws.String(mt.String()),
		ContentLength: aws.Int64(int64(len(blob))),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return u.publicURL + "/" + key, nil
}

func storageKey(ext string) string {
	d := timeNow().UTC()
	return fmt.Sprintf("avatars/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}
