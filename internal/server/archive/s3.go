// Package archive persists round-end snapshots of the station board to
// S3-compatible object storage (MinIO in dev).
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/lanternhq/lanternhack/internal/server/config"
	"github.com/lanternhq/lanternhack/internal/server/models"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// snapshot is the stored document: the board as it stood when the round ended.
type snapshot struct {
	TakenAt  time.Time         `json:"taken_at"`
	Stations []*models.Station `json:"stations"`
}

type Writer struct {
	config *sc.Config
}

func NewWriter(config *sc.Config) *Writer {
	return &Writer{config: config}
}

// GetSnapshotStorageKey returns a date-sharded unique object key.
func GetSnapshotStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("rounds/%d/%d/%d/%v.json", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (w *Writer) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(w.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			w.config.S3RootUser,     // MINIO_ROOT_USER
			w.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if w.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(w.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

// StoreSnapshot uploads the board snapshot and returns its object key.
func (w *Writer) StoreSnapshot(ctx context.Context, stations []*models.Station) (string, error) {
	body, err := json.Marshal(snapshot{TakenAt: time.Now().UTC(), Stations: stations})
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	client, err := w.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating s3 client: %w", err)
	}

	bucket := w.config.S3Bucket
	key := GetSnapshotStorageKey()

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading snapshot: %w", err)
	}

	return key, nil
}
