package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const s3Scheme = "s3"

// Source opens the raw CSV bytes of a dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

type SourceOptions struct {
	// Region is used for s3:// locations; empty falls back to the AWS default chain.
	Region string
}

// NewSource picks a source for location: s3://bucket/key or a local file path.
func NewSource(ctx context.Context, location string, opts SourceOptions) (Source, error) {
	if !strings.HasPrefix(location, s3Scheme+"://") {
		return FileSource{Path: location}, nil
	}

	bucket, key, err := parseS3Location(location)
	if err != nil {
		return nil, err
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Source{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
		Key:    key,
	}, nil
}

type FileSource struct {
	Path string
}

func (f FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", f.Path, ErrMissingFile)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	return file, nil
}

func (f FileSource) String() string {
	return f.Path
}

// GetObjectAPI is the part of the S3 client the source needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Source struct {
	Client GetObjectAPI
	Bucket string
	Key    string
}

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})

	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) {
		return nil, fmt.Errorf("%s: %w", s, ErrMissingFile)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s, err)
	}
	return out.Body, nil
}

func (s *S3Source) String() string {
	return fmt.Sprintf("%s://%s/%s", s3Scheme, s.Bucket, s.Key)
}

func parseS3Location(location string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", location, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 location %q must look like s3://bucket/key", location)
	}
	return u.Host, key, nil
}
