// Package archive keeps an immutable snapshot of every merged timetable in
// S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/titansafe/timetable/internal/models"
	sc "github.com/titansafe/timetable/internal/server/config"
)

// Archiver stores a snapshot and returns its key.
type Archiver interface {
	Archive(ctx context.Context, doc *models.TimetableDocument) (string, error)
}

// Nop archives nothing.
type Nop struct{}

func (Nop) Archive(context.Context, *models.TimetableDocument) (string, error) { return "", nil }

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newKey = func() string { return uuid.NewString() }
)

// S3Archive writes snapshots as JSON objects.
type S3Archive struct {
	client putObjectAPI
	bucket string
	now    func() time.Time
}

// NewS3Archive builds a client for the configured endpoint with static
// credentials and path-style addressing, as MinIO expects.
func NewS3Archive(ctx context.Context, c *sc.Config) (*S3Archive, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return &S3Archive{client: client, bucket: c.S3Bucket, now: time.Now}, nil
}

// StorageKey names the snapshot of an edition taken at t.
func StorageKey(event, year string, t time.Time) string {
	return fmt.Sprintf("timetables/%s/%s/%s/%s.json",
		url.PathEscape(event), url.PathEscape(year), t.UTC().Format("2006/01/02"), newKey())
}

func (a *S3Archive) Archive(ctx context.Context, doc *models.TimetableDocument) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	key := StorageKey(doc.Event, doc.Year, a.now())

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put snapshot %s: %w", key, err)
	}
	return key, nil
}
