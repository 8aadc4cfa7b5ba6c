package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const (
	photoKeyPrefix = "profile-pics"
	presignExpiry  = 5 * time.Minute
)

// Presigner is the subset of *s3.PresignClient used for profile photos.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PhotoService hands out presigned object-store URLs for profile photos.
// Objects live under profile-pics/<profileId>/; uploads always land in the caller's own folder.
type PhotoService struct {
	Presigner Presigner
	Bucket    string
	now       func() time.Time
}

// NewPhotoService builds a PhotoService from the default AWS config.
func NewPhotoService(ctx context.Context, region, bucket string) (*PhotoService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &PhotoService{
		Presigner: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		Bucket:    bucket,
		now:       time.Now,
	}, nil
}

// PhotoKey builds the object key for a new upload by ownerID.
func PhotoKey(ownerID, fileName string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	return fmt.Sprintf("%s/%s/%s-%s-%s", photoKeyPrefix, ownerID, at.UTC().Format("20060102150405"), uuid.NewString()[:8], name)
}

// OwnsPhotoKey reports whether key lies under ownerID's photo prefix.
func OwnsPhotoKey(ownerID, key string) bool {
	prefix := photoKeyPrefix + "/" + ownerID + "/"
	return ownerID != "" && strings.HasPrefix(key, prefix) && !strings.Contains(key, "..")
}

// GenerateUploadURL generates a presigned URL for uploading a photo owned by callerID.
func (ps *PhotoService) GenerateUploadURL(ctx context.Context, callerID, fileName, fileType string) (string, string, error) {
	if callerID == "" {
		return "", "", ErrUnauthorized
	}
	if fileName == "" || !strings.HasPrefix(fileType, "image/") {
		return "", "", &ValidationError{Msg: "fileName and an image/* fileType are required"}
	}

	key := PhotoKey(callerID, fileName, ps.now())
	req, err := ps.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ps.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return req.URL, key, nil
}

// GenerateReadURL generates a presigned URL for reading a profile photo.
func (ps *PhotoService) GenerateReadURL(ctx context.Context, callerID, key string) (string, error) {
	if callerID == "" {
		return "", ErrUnauthorized
	}
	if !strings.HasPrefix(key, photoKeyPrefix+"/") || strings.Contains(key, "..") {
		return "", &ValidationError{Msg: "key is not a profile photo"}
	}

	req, err := ps.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ps.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return req.URL, nil
}
