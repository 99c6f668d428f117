// Package publish uploads the generated site data to an S3-compatible
// bucket (CloudFlare R2 in production).
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"newsarchive/internal/config"
	"newsarchive/internal/logger"
)

// Publisher uploads files to a single bucket.
type Publisher struct {
	client *s3.Client
	bucket string
}

// New builds a Publisher from the R2 settings in cfg. Endpoint, access key,
// secret and bucket are all required.
func New(ctx context.Context, cfg *config.Config) (*Publisher, error) {
	if cfg.R2Endpoint == "" || cfg.R2AccessKey == "" || cfg.R2SecretKey == "" {
		return nil, fmt.Errorf("publishing requires R2_ENDPOINT, R2_ACCESS_KEY and R2_SECRET_ACCESS_KEY")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
		o.UsePathStyle = true
	})

	return &Publisher{
		client: client,
		bucket: cfg.R2Bucket,
	}, nil
}

// PublishDir uploads every regular file under dir, keyed by its path
// relative to dir. Uploads run sequentially; the payload is a handful of
// JSON files, not an asset pipeline.
func (p *Publisher) PublishDir(ctx context.Context, dir string) error {
	log := logger.Get()
	start := time.Now()
	uploaded := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType(path)),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}

		log.Debug().Str("key", key).Int("bytes", len(data)).Msg("Uploaded object")
		uploaded++
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("files", uploaded).
		Str("bucket", p.bucket).
		Dur("duration", time.Since(start)).
		Msg("Publish finished")
	return nil
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
