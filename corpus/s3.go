package corpus

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
)

// S3API is the part of *s3.Client the store needs.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Options configures the client built by NewS3Client. Empty credentials
// make anonymous requests.
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds an S3 client. A custom endpoint (MinIO, localstack)
// switches to path-style addressing.
func NewS3Client(opts S3Options) *s3.Client {
	cfg := aws.Config{Region: opts.Region}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if opts.AccessKey != "" {
		cfg.Credentials = credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
	} else {
		cfg.Credentials = aws.AnonymousCredentials{}
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
}

// S3Store keeps entries as <prefix>/<escaped property>/<id>.hex objects.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

var _ Store = (*S3Store)(nil)

func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *S3Store) propertyPrefix(property string) string {
	return path.Join(s.prefix, url.PathEscape(property)) + "/"
}

func (s *S3Store) key(property, id string) string {
	return s.propertyPrefix(property) + id + entryExt
}

func (s *S3Store) Save(ctx context.Context, e Entry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(e.Property, e.ID)),
		Body:        bytes.NewReader(encodeChoices(e.Choices)),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return errors.Wrapf(err, "uploading %s/%s", e.Property, e.ID)
	}
	return nil
}

func (s *S3Store) Load(ctx context.Context, property string) ([]Entry, error) {
	if err := validateProperty(property); err != nil {
		return nil, err
	}
	var entries []Entry
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.propertyPrefix(property)),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", property)
		}
		for _, obj := range page.Contents {
			id, ok := entryIDFromName(path.Base(aws.ToString(obj.Key)))
			if !ok {
				continue
			}
			e, err := s.Get(ctx, property, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if obj.LastModified != nil {
				e.CreatedAt = obj.LastModified.UTC()
			}
			entries = append(entries, e)
		}
	}
	sortEntries(entries)
	return entries, nil
}

func (s *S3Store) Get(ctx context.Context, property, id string) (Entry, error) {
	if err := validateProperty(property); err != nil {
		return Entry{}, err
	}
	if err := validateID(id); err != nil {
		return Entry{}, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(property, id)),
	})
	if isNotFound(err) {
		return Entry{}, errors.Wrapf(ErrNotFound, "%s/%s", property, id)
	}
	if err != nil {
		return Entry{}, errors.Wrapf(err, "downloading %s/%s", property, id)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "reading %s/%s", property, id)
	}
	choices, err := decodeChoices(body)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "%s/%s", property, id)
	}
	e := Entry{Property: property, ID: id, Choices: choices}
	if out.LastModified != nil {
		e.CreatedAt = out.LastModified.UTC()
	}
	return e, nil
}

func (s *S3Store) Delete(ctx context.Context, property, id string) error {
	if err := validateProperty(property); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}
	key := aws.String(s.key(property, id))
	// DeleteObject succeeds for missing keys
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: key})
	if isNotFound(err) {
		return errors.Wrapf(ErrNotFound, "%s/%s", property, id)
	}
	if err != nil {
		return errors.Wrapf(err, "checking %s/%s", property, id)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: key}); err != nil {
		return errors.Wrapf(err, "deleting %s/%s", property, id)
	}
	return nil
}

func (s *S3Store) Properties(ctx context.Context) ([]string, error) {
	root := ""
	if s.prefix != "" {
		root = s.prefix + "/"
	}
	seen := make(map[string]bool)
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(root),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "listing properties")
		}
		for _, obj := range page.Contents {
			rel := strings.TrimPrefix(aws.ToString(obj.Key), root)
			dir, file, ok := strings.Cut(rel, "/")
			if !ok || strings.Contains(file, "/") {
				continue
			}
			if _, ok := entryIDFromName(file); !ok {
				continue
			}
			name, err := url.PathUnescape(dir)
			if err != nil {
				continue
			}
			seen[name] = true
		}
	}
	props := make([]string, 0, len(seen))
	for name := range seen {
		props = append(props, name)
	}
	sort.Strings(props)
	return props, nil
}

func (s *S3Store) Close() error { return nil }

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noKey) || errors.As(err, &notFound)
}
