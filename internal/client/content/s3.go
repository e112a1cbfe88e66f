package content

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophstorage/internal/client/models"
)

// S3Config holds the object storage settings. Direct access is enabled only
// when AccessKey and SecretKey are both set.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func (c S3Config) Enabled() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// S3Source reads objects straight from the bucket named in the record.
type S3Source struct {
	client objectGetter
}

// NewS3Source builds an S3 client from cfg. A custom Endpoint (MinIO,
// LocalStack) switches to path-style addressing.
func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Source{client: client}, nil
}

func (s *S3Source) Name() string { return "s3" }

func (s *S3Source) Fetch(ctx context.Context, f models.StorageFile) ([]byte, error) {
	if f.S3Bucket == "" || f.S3Key == "" {
		return nil, ErrNotApplicable
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.S3Bucket),
		Key:    aws.String(f.S3Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", f.S3Bucket, f.S3Key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", f.S3Bucket, f.S3Key, err)
	}
	return data, nil
}
