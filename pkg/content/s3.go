package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// DefaultMaxObjectBytes bounds the size of a post object.
const DefaultMaxObjectBytes = 4 << 20

// S3Source reads posts from objects named <Prefix><slug><Ext> in a bucket.
//
// Example usage:
//
//	client := content.NewS3Client(content.S3Options{Region: "us-east-1"})
//	source := content.NewS3Source(client, "my-blog", "posts/")
type S3Source struct {
	client   S3API
	bucket   string
	prefix   string
	ext      string
	maxBytes int64
}

// NewS3Source creates a source reading from bucket under prefix.
func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	return &S3Source{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		ext:      DefaultExt,
		maxBytes: DefaultMaxObjectBytes,
	}
}

// WithExt sets the object name extension.
func (s *S3Source) WithExt(ext string) *S3Source {
	s.ext = ext
	return s
}

// Read implements Source.
func (s *S3Source) Read(ctx context.Context, slug string) (Post, error) {
	if slug == "" || slug != SanitizeSlug(slug) {
		return Post{}, &NotFoundError{Slug: slug}
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + slug + s.ext),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return Post{}, &NotFoundError{Slug: slug, Err: err}
		}
		return Post{}, fmt.Errorf("content: s3 get %s: %w", slug, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, s.maxBytes+1))
	if err != nil {
		return Post{}, fmt.Errorf("content: s3 read %s: %w", slug, err)
	}
	if int64(len(data)) > s.maxBytes {
		return Post{}, fmt.Errorf("content: s3 object %s exceeds %d bytes", slug, s.maxBytes)
	}
	return ParsePost(slug, data)
}

// List implements Source. Objects in nested "directories" under the
// prefix are skipped.
func (s *S3Source) List(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var slugs []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("content: s3 list: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if strings.Contains(name, "/") || !strings.HasSuffix(name, s.ext) {
				continue
			}
			if slug := strings.TrimSuffix(name, s.ext); slug != "" {
				slugs = append(slugs, slug)
			}
		}
	}
	return sortedSlugs(slugs), nil
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region string

	// Endpoint overrides the service endpoint, e.g. for MinIO or
	// LocalStack.
	Endpoint string

	// AccessKeyID and SecretAccessKey are static credentials. Requests are
	// anonymous when both are empty.
	AccessKeyID     string
	SecretAccessKey string

	// UsePathStyle addresses buckets as <endpoint>/<bucket>.
	UsePathStyle bool
}

// NewS3Client creates an S3 client from explicit options.
func NewS3Client(opts S3Options) *s3.Client {
	var creds aws.CredentialsProvider = aws.AnonymousCredentials{}
	if opts.AccessKeyID != "" || opts.SecretAccessKey != "" {
		static := aws.Credentials{
			AccessKeyID:     opts.AccessKeyID,
			SecretAccessKey: opts.SecretAccessKey,
			Source:          "flight",
		}
		creds = aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return static, nil
		}))
	}

	o := s3.Options{
		Region:       opts.Region,
		Credentials:  creds,
		UsePathStyle: opts.UsePathStyle,
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return s3.New(o)
}
