package s3archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"molttactics/internal/adapter/archive"
	"molttactics/internal/app/ports"
	"molttactics/internal/domain/arena"
)

// Client is the subset of the S3 API the archive uses.
type Client interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

// Archive stores replays as objects under Prefix in Bucket. It works with
// AWS S3 and with S3-compatible stores such as R2 or MinIO.
type Archive struct {
	client Client
	bucket string
	prefix string
}

func New(client Client, bucket, prefix string) Archive {
	return Archive{client: client, bucket: bucket, prefix: prefix}
}

// NewClient builds an S3 client. A custom endpoint switches to path-style
// addressing; static keys override the default credential chain.
func NewClient(ctx context.Context, o Options) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	}), nil
}

func (a Archive) key(matchID string) (string, error) {
	name, err := archive.Name(matchID)
	if err != nil {
		return "", err
	}
	return a.prefix + name, nil
}

func (a Archive) Store(ctx context.Context, r arena.Replay) error {
	key, err := a.key(r.MatchID)
	if err != nil {
		return err
	}
	b, err := archive.Encode(r)
	if err != nil {
		return err
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/zstd"),
	})
	if err != nil {
		return fmt.Errorf("upload replay %s: %w", r.MatchID, err)
	}
	return nil
}

func (a Archive) Load(ctx context.Context, matchID string) (arena.Replay, error) {
	key, err := a.key(matchID)
	if err != nil {
		return arena.Replay{}, ports.ErrNotFound
	}
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return arena.Replay{}, ports.ErrNotFound
		}
		return arena.Replay{}, fmt.Errorf("download replay %s: %w", matchID, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return arena.Replay{}, err
	}
	return archive.Decode(b)
}

var _ ports.ReplayArchive = Archive{}
