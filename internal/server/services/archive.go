package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/dmitrijs2005/jobscreen/internal/logging"
	sc "github.com/dmitrijs2005/jobscreen/internal/server/config"
	"github.com/google/uuid"
)

// ArchiveLinkTTL is how long the returned download link stays valid.
const ArchiveLinkTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Archive describes an uploaded CSV export.
type Archive struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ArchiveService uploads CSV exports of the prediction ledger to an
// S3-compatible bucket.
type ArchiveService struct {
	analytics *AnalyticsService
	config    *sc.Config
	logger    logging.Logger
	now       func() time.Time
}

func NewArchiveService(analytics *AnalyticsService, cfg *sc.Config, logger logging.Logger) *ArchiveService {
	return &ArchiveService{
		analytics: analytics,
		config:    cfg,
		logger:    logger.With("module", "archive"),
		now:       time.Now,
	}
}

func (s *ArchiveService) Enabled() bool { return s.config.S3Bucket != "" }

// ArchiveKey returns a fresh object key under exports/YYYY/MM/DD/.
func ArchiveKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("exports/%04d/%02d/%02d/%v.csv", t.Year(), int(t.Month()), t.Day(), uuid.New())
}

func (s *ArchiveService) getClient(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.config.S3Region)}
	if s.config.S3RootUser != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Archive renders the current CSV export, uploads it and returns a
// time-limited download link.
func (s *ArchiveService) Archive(ctx context.Context) (*Archive, error) {
	if !s.Enabled() {
		return nil, common.ErrArchiveDisabled
	}

	var buf bytes.Buffer
	rows, err := s.analytics.ExportCSV(ctx, &buf)
	if err != nil {
		return nil, err
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	now := s.now()
	key := ArchiveKey(now)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	}); err != nil {
		s.logger.Error(ctx, "archive upload failed", "bucket", bucket, "key", key, "error", err)
		return nil, fmt.Errorf("upload archive: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ArchiveLinkTTL))
	if err != nil {
		return nil, fmt.Errorf("presign archive: %w", err)
	}

	s.logger.Info(ctx, "archive uploaded", "bucket", bucket, "key", key, "rows", rows)
	return &Archive{Key: key, URL: req.URL, Rows: rows, ExpiresAt: now.Add(ArchiveLinkTTL)}, nil
}
