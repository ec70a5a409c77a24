package docs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MaxSize bounds the documents the loader accepts.
const MaxSize = 10 << 20

const s3Scheme = "s3://"

// S3Config configures access to an S3 compatible object store.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
}

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads documents from local paths or s3://bucket/key locations.
type Loader struct {
	cfg S3Config
	s3  objectGetter
}

func NewLoader(cfg S3Config) *Loader {
	return &Loader{cfg: cfg}
}

// Load returns the base name and content of the document at location.
func (l *Loader) Load(ctx context.Context, location string) (string, []byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", nil, fmt.Errorf("%w: empty document location", ErrInvalidInput)
	}

	if strings.HasPrefix(location, s3Scheme) {
		return l.loadS3(ctx, location)
	}

	f, err := os.Open(location)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", location, err)
	}
	return path.Base(strings.ReplaceAll(location, "\\", "/")), data, nil
}

func (l *Loader) loadS3(ctx context.Context, location string) (string, []byte, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", nil, fmt.Errorf("%w: expected s3://bucket/key, got %q", ErrInvalidInput, location)
	}

	client, err := l.client(ctx)
	if err != nil {
		return "", nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	data, err := readLimited(out.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return path.Base(key), data, nil
}

func (l *Loader) client(ctx context.Context) (objectGetter, error) {
	if l.s3 != nil {
		return l.s3, nil
	}

	var opts []func(*config.LoadOptions) error
	if l.cfg.Region != "" {
		opts = append(opts, config.WithRegion(l.cfg.Region))
	}
	if l.cfg.AccessKey != "" && l.cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(l.cfg.AccessKey, l.cfg.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}

	l.s3 = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if l.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(l.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return l.s3, nil
}

var errTooLarge = fmt.Errorf("%w: document exceeds %d bytes", ErrInvalidInput, MaxSize)

func readLimited(r io.Reader) ([]byte, error) {
	buf := new(bytes.Buffer)
	n, err := io.Copy(buf, io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if n > MaxSize {
		return nil, errTooLarge
	}
	return buf.Bytes(), nil
}

// IsTooLarge reports whether err was caused by a document over MaxSize.
func IsTooLarge(err error) bool {
	return errors.Is(err, errTooLarge)
}
