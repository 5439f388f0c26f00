package archive

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/gosimple/slug"

	"github.com/riskibarqy/lock-of-the-week/internal/domain/notification"
	"github.com/riskibarqy/lock-of-the-week/internal/platform/logging"
)

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type document struct {
	Kind       string    `json:"kind"`
	Season     int       `json:"season"`
	Week       int       `json:"week"`
	From       string    `json:"from"`
	To         []string  `json:"to"`
	Cc         []string  `json:"cc,omitempty"`
	Subject    string    `json:"subject"`
	HTMLBody   string    `json:"html_body"`
	ArchivedAt time.Time `json:"archived_at"`
}

// S3Archiver stores a JSON copy of every delivered email.
type S3Archiver struct {
	client objectPutter
	bucket string
	prefix string
	logger *logging.Logger
	now    func() time.Time
}

func NewS3Archiver(ctx context.Context, cfg S3Config, logger *logging.Logger) (*S3Archiver, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, crerr.New("archive bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, crerr.Wrap(err, "load aws config")
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Archiver(client, cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3Archiver(client objectPutter, bucket, prefix string, logger *logging.Logger) *S3Archiver {
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Archiver{
		client: client,
		bucket: strings.TrimSpace(bucket),
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
		logger: logger,
		now:    time.Now,
	}
}

func (a *S3Archiver) Archive(ctx context.Context, season, week int, email notification.Email) error {
	archivedAt := a.now().UTC()
	key := ObjectKey(a.prefix, season, week, email.Kind, email.To, archivedAt)
	body, err := sonic.Marshal(document{
		Kind:       email.Kind,
		Season:     season,
		Week:       week,
		From:       email.From,
		To:         email.To,
		Cc:         email.Cc,
		Subject:    email.Subject,
		HTMLBody:   email.HTMLBody,
		ArchivedAt: archivedAt,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal archive document")
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return crerr.Wrapf(err, "put archive object key=%s", key)
	}
	a.logger.DebugContext(ctx, "email archived", "bucket", a.bucket, "key", key)
	return nil
}

// ObjectKey names an archived email, e.g.
// "mail/2025/week-07/standings/jane-at-example-com-20251016t201500z.json".
func ObjectKey(prefix string, season, week int, kind string, to []string, at time.Time) string {
	recipient := "broadcast"
	if len(to) == 1 {
		recipient = slug.Make(to[0])
	}
	kindPart := slug.Make(kind)
	if kindPart == "" {
		kindPart = "email"
	}
	name := fmt.Sprintf("%d/week-%02d/%s/%s-%s.json", season, week, kindPart, recipient, slug.Make(at.UTC().Format("20060102T150405Z")))
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
