package manifest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/vango-dev/routemeta/pkg/route"
)

// ObjectGetter is the part of *s3.Client used to fetch manifests.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures the S3 client built by NewS3Client.
type S3Options struct {
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// NewS3Client builds an S3 client. Credentials come from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN; without
// them requests are anonymous.
func NewS3Client(opts S3Options) *s3.Client {
	region := opts.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	o := s3.Options{
		Region:       region,
		UsePathStyle: opts.UsePathStyle,
		Credentials:  envCredentials(),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return s3.New(o)
}

func envCredentials() aws.CredentialsProvider {
	if os.Getenv("AWS_ACCESS_KEY_ID") == "" {
		return aws.AnonymousCredentials{}
	}
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}, nil
	}))
}

// Loader reads manifests from local files or S3.
type Loader struct {
	s3     ObjectGetter
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithS3 sets the client used for s3:// sources.
func WithS3(client ObjectGetter) LoaderOption {
	return func(l *Loader) {
		l.s3 = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default().With("component", "manifest")
	}
	return l
}

// Load reads, decodes and builds the manifest at source, a file path or an
// s3://bucket/key URL.
func (l *Loader) Load(ctx context.Context, source string) (*route.Node, error) {
	format, err := FormatOf(source)
	if err != nil {
		return nil, err
	}
	src, err := l.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	m, err := Parse(src, source, format)
	if err != nil {
		return nil, err
	}
	root, err := m.Build()
	if err != nil {
		return nil, err
	}
	l.logger.Info("manifest loaded", "source", source, "format", format, "routes", len(m.Routes))
	return root, nil
}

// Fetch returns the raw bytes at source.
func (l *Loader) Fetch(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "s3://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, errors.New("E151").WithDetail(fmt.Sprintf("Cannot read %s", source)).Wrap(err)
		}
		return data, nil
	}

	bucket, key, err := ParseS3URL(source)
	if err != nil {
		return nil, err
	}
	if l.s3 == nil {
		return nil, errors.New("E151").
			WithDetail("No S3 client configured for " + source)
	}

	l.logger.Debug("fetching manifest", "bucket", bucket, "key", key)
	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("E151").WithDetail(fmt.Sprintf("s3 fetch of %s failed", source)).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E151").Wrap(err)
	}
	return data, nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(source string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(source, "s3://")
	if !ok {
		return "", "", errors.New("E151").WithDetail(source + " is not an s3:// URL")
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New("E151").
			WithDetail(source + " must name a bucket and a key").
			WithSuggestion("Use s3://bucket/path/to/routes.hcl")
	}
	return bucket, key, nil
}
