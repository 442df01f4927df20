package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/bitrise-io/go-resumable/internal"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"
)

const defaultPartSizeMB = 10

// S3Params ...
type S3Params struct {
	Bucket string
	// KeyPrefix is prepended to every object key, e.g. "uploads/chunks".
	KeyPrefix       string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// PartSizeMB is the multipart part size used when a staged chunk is moved into the bucket.
	// If not provided (0), the default value (10) will be used.
	PartSizeMB int64
}

type s3API interface {
	manager.UploadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 keeps chunk files as objects of a bucket. Chunk paths are mapped to keys
// by their base name, since every chunk of a store lives in one flat directory.
// Staged uploads are expected on the local filesystem.
type S3 struct {
	client    s3API
	bucket    string
	keyPrefix string
	partSize  int64
	osProxy   internal.OsProxy
	logger    log.Logger
}

// NewS3 loads AWS credentials and creates an S3 backed Storage.
func NewS3(ctx context.Context, params S3Params, logger log.Logger) (*S3, error) {
	if params.Bucket == "" {
		return nil, fmt.Errorf("bucket must not be empty")
	}

	cfg, err := loadAWSCredentials(ctx, params.Region, params.AccessKeyID, params.SecretAccessKey, logger)
	if err != nil {
		return nil, fmt.Errorf("load aws credentials: %w", err)
	}

	return newS3(s3.NewFromConfig(*cfg), params, internal.RealOS{}, logger), nil
}

func newS3(client s3API, params S3Params, osProxy internal.OsProxy, logger log.Logger) *S3 {
	partSizeMB := params.PartSizeMB
	if partSizeMB <= 0 {
		partSizeMB = defaultPartSizeMB
	}

	return &S3{
		client:    client,
		bucket:    params.Bucket,
		keyPrefix: params.KeyPrefix,
		partSize:  partSizeMB * units.MiB,
		osProxy:   osProxy,
		logger:    logger,
	}
}

// Key returns the object key chunkPath is stored under.
func (s *S3) Key(chunkPath string) string {
	name := filepath.Base(chunkPath)
	if s.keyPrefix == "" {
		return name
	}
	return path.Join(s.keyPrefix, name)
}

// Exists ...
func (s *S3) Exists(ctx context.Context, chunkPath string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(chunkPath)),
	})
	if err == nil {
		return true, nil
	}

	var apiError smithy.APIError
	if errors.As(err, &apiError) {
		switch apiError.(type) {
		case *types.NotFound, *types.NoSuchKey:
			return false, nil
		}
	}
	return false, err
}

// Rename uploads the locally staged file to the chunk's key and removes the staged copy.
// The object only becomes visible once the upload completed.
func (s *S3) Rename(ctx context.Context, srcPath, dstPath string) error {
	file, err := s.osProxy.Open(srcPath)
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		return err
	}

	key := s.Key(dstPath)
	s.logger.Debugf("Uploading %s (%s) to s3://%s/%s", srcPath, units.HumanSizeWithPrecision(float64(info.Size()), 3), s.bucket, key)

	uploader := manager.NewUploader(s.client, func(u *manager.Uploader) {
		u.PartSize = s.partSize
	})
	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Body:          file,
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String("application/octet-stream"),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return err
	}

	return s.osProxy.Remove(srcPath)
}

// Remove ...
func (s *S3) Remove(ctx context.Context, chunkPath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(chunkPath)),
	})
	return err
}

// Open ...
func (s *S3) Open(ctx context.Context, chunkPath string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(chunkPath)),
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

func loadAWSCredentials(
	ctx context.Context,
	region string,
	accessKeyID string,
	secretKey string,
	logger log.Logger,
) (*aws.Config, error) {
	if region == "" {
		return nil, fmt.Errorf("region must not be empty")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if accessKeyID != "" && secretKey != "" {
		logger.Debugf("aws credentials provided, using them...")
		opts = append(opts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config, %v", err)
	}

	return &cfg, nil
}
