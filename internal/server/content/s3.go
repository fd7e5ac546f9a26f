package content

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/avdenisov/roost/internal/server/config"
)

// Presigner issues presigned PUT/GET URLs against the S3-compatible
// staging store where raw upload blobs land before the content service
// picks them up.
type Presigner struct {
	config *sc.Config
}

func NewPresigner(config *sc.Config) *Presigner {
	return &Presigner{config: config}
}

// RandomStorageKey builds a date-partitioned random object key.
func RandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (p *Presigner) presignClient() (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(p.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.config.S3RootUser,
			p.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.config.S3BaseEndpoint)
	})

	return s3.NewPresignClient(client), nil
}

// PresignPut returns a fresh storage key and a presigned PUT URL for it.
func (p *Presigner) PresignPut(ctx context.Context) (string, string, error) {

	presignClient, err := p.presignClient()
	if err != nil {
		return "", "", err
	}

	bucket := p.config.S3Bucket
	key := RandomStorageKey()

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(p.config.PresignTTL))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignGet returns a presigned GET URL for an existing storage key.
func (p *Presigner) PresignGet(ctx context.Context, key string) (string, error) {

	presignClient, err := p.presignClient()
	if err != nil {
		return "", err
	}

	bucket := p.config.S3Bucket

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(p.config.PresignTTL))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
