package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Store
type S3API interface {
	s3.ListObjectsV2APIClient
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Options configure an S3Store
type S3Options struct {
	Bucket   string
	Region   string
	Endpoint string

	// Static credentials; when empty the default AWS credential chain is used
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store keeps assets in an S3 bucket under the apps/a<id>/ prefix
type S3Store struct {
	Bucket string
	client S3API
}

// NewS3Store creates an S3Store from opts.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			// S3-compatible servers such as MinIO
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StoreWithClient(opts.Bucket, client), nil
}

// NewS3StoreWithClient creates an S3Store using an existing client.
func NewS3StoreWithClient(bucket string, client S3API) *S3Store {
	return &S3Store{Bucket: bucket, client: client}
}

// Prefix returns the key prefix holding the assets of an app.
func Prefix(appID uint) string {
	return AppDir(appID) + "/"
}

// Location returns s3://<bucket>/apps/a<id>/.
func (s *S3Store) Location(appID uint) string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, Prefix(appID))
}

// RemoveApp deletes every object under the prefix of an app.
func (s *S3Store) RemoveApp(ctx context.Context, appID uint) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(Prefix(appID)),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects in %s: %w", s.Location(appID), err)
		}

		var objectsToDelete []s3types.ObjectIdentifier
		for _, object := range page.Contents {
			objectsToDelete = append(objectsToDelete, s3types.ObjectIdentifier{
				Key: object.Key,
			})
		}

		if len(objectsToDelete) == 0 {
			continue
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.Bucket),
			Delete: &s3types.Delete{
				Objects: objectsToDelete,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete objects in %s: %w", s.Location(appID), err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("failed to delete %d objects in %s: %s: %s",
				len(out.Errors), s.Location(appID), aws.ToString(first.Key), aws.ToString(first.Message))
		}
	}

	return nil
}
