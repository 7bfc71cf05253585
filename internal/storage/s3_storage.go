package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"mkulima/soko/internal/config"
)

// IImageStorage defines the interface for listing image uploads.
type IImageStorage interface {
	UploadListingImage(ctx context.Context, filename string, data []byte) (string, error)
}

// s3Storage implements IImageStorage on top of an S3 bucket.
type s3Storage struct {
	cfg      *config.Config
	s3Client *s3.Client
}

// NewS3Storage creates a new S3-backed image store.
func NewS3Storage(cfg *config.Config) (IImageStorage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &s3Storage{
		cfg:      cfg,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

// Configured reports whether uploads can work with the loaded settings.
// Listings fall back to the default seed pack image when they cannot.
func Configured(cfg *config.Config) bool {
	return cfg.AwsRegion != "" && cfg.AwsS3Bucket != ""
}

// UploadListingImage normalizes and stores one listing photo, returning the
// public URL to embed in the listing draft. Oversized photos are rejected;
// photos larger than the max dimension are scaled down and re-encoded as JPEG.
func (s *s3Storage) UploadListingImage(ctx context.Context, filename string, data []byte) (string, error) {
	maxSizeBytes := int64(s.cfg.ImageMaxSizeMB) * 1024 * 1024
	if int64(len(data)) > maxSizeBytes {
		return "", fmt.Errorf("image exceeds maximum size of %dMB", s.cfg.ImageMaxSizeMB)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unsupported image format or corrupt image: %w", err)
	}

	maxDim := uint(s.cfg.ImageMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	// Output is always JPEG, whatever the uploaded format was.
	objectKey := fmt.Sprintf("listings/%s_%s.jpg", uuid.NewString(), sanitizeBase(filename))
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", objectKey, err)
	}

	return s.publicURL(objectKey), nil
}

// sanitizeBase strips the path and extension from an uploaded filename and
// keeps only characters safe in an S3 key.
func sanitizeBase(filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	var sb strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "photo"
	}
	return sb.String()
}

func (s *s3Storage) publicURL(objectKey string) string {
	if base := strings.TrimSuffix(s.cfg.ImageBaseS3URL, "/"); base != "" {
		return base + "/" + objectKey
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.AwsS3Bucket, s.cfg.AwsRegion, objectKey)
}
