// internal/app/system/imaging/s3.go
package imaging

import (
	"bytes"
	"context"
	"fmt"

	"github.com/averywhitlock/photocove/internal/app/system/apperr"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Pipeline stores originals in an S3 bucket. The external resizer watches
// originals/ and writes display and thumb variants next to them, so the
// variant URLs are derivable at upload time even though the objects appear
// later.
type S3Pipeline struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Pipeline(ctx context.Context, bucket, region string) (*S3Pipeline, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Pipeline{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

func (p *S3Pipeline) Store(ctx context.Context, photoID string, data []byte, contentType string) (Result, error) {
	ext, err := extFor(contentType)
	if err != nil {
		return Result{}, err
	}

	key := fmt.Sprintf("photos/%s/original%s", photoID, ext)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &p.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return Result{}, apperr.Upstream("could not store photo", fmt.Errorf("put object %s: %w", key, err))
	}

	takenAt, loc := ExtractMetadata(data)
	return Result{
		URL:          p.objectURL(fmt.Sprintf("photos/%s/display.jpg", photoID)),
		ThumbnailURL: p.objectURL(fmt.Sprintf("photos/%s/thumb.jpg", photoID)),
		OriginalURL:  p.objectURL(key),
		Key:          key,
		TakenAt:      takenAt,
		Location:     loc,
	}, nil
}

func (p *S3Pipeline) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &p.bucket,
		Key:    &key,
	})
	if err != nil {
		return apperr.Upstream("could not remove photo artifact", fmt.Errorf("delete object %s: %w", key, err))
	}
	return nil
}

func (p *S3Pipeline) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
}
