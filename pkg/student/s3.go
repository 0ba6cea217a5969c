package student

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the registry document in a single S3 object.
type S3Store struct {
	docStore
	bucket string
	key    string
}

// NewS3Store returns a store reading and writing bucket/key through client.
func NewS3Store(client S3API, bucket, key string) *S3Store {
	s := &S3Store{bucket: bucket, key: key}
	s.docStore = docStore{
		b:    s3Blob{client: client, bucket: bucket, key: key},
		ids:  NewIDSource(nil),
		name: "s3",
	}
	return s
}

// Location returns the s3:// URL of the backing object.
func (s *S3Store) Location() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Close is a no-op.
func (s *S3Store) Close() error { return nil }

// S3ClientOptions configures NewS3Client.
type S3ClientOptions struct {
	Region       string
	Endpoint     string // custom endpoint, e.g. a MinIO URL
	UsePathStyle bool
}

// NewS3Client builds an S3 client. Credentials come from the standard
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN variables.
func NewS3Client(opts S3ClientOptions) *s3.Client {
	o := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.UsePathStyle,
		Credentials:  aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if o.Region == "" {
		o.Region = os.Getenv("AWS_REGION")
	}
	if o.Region == "" {
		o.Region = "us-east-1"
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return s3.New(o)
}

func envCredentials(ctx context.Context) (aws.Credentials, error) {
	c := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return aws.Credentials{}, errors.New("student: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set for the s3 driver")
	}
	return c, nil
}

type s3Blob struct {
	client S3API
	bucket string
	key    string
}

func (b s3Blob) read(ctx context.Context) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, fmt.Errorf("student: s3 get %s/%s: %w", b.bucket, b.key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("student: s3 read: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (b s3Blob) write(ctx context.Context, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("student: s3 put %s/%s: %w", b.bucket, b.key, err)
	}
	return nil
}
