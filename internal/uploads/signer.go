package uploads

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// URLTTL is how long an issued upload URL stays valid.
const URLTTL = 15 * time.Minute

// ObjectName is unique per caller as long as one caller never asks twice in
// the same millisecond. ext is used verbatim.
func ObjectName(uid, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%d.%s", uid, now.UnixMilli(), ext)
}

type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Signer mints SigV4 PUT URLs for the raw video bucket.
type Signer struct {
	presign PresignAPI
	bucket  string
}

func NewSigner(client *s3.Client, bucket string) *Signer {
	return NewSignerWith(s3.NewPresignClient(client), bucket)
}

func NewSignerWith(presign PresignAPI, bucket string) *Signer {
	return &Signer{presign: presign, bucket: bucket}
}

// UploadURL returns a URL that allows exactly one object, key, to be written
// for URLTTL after issuance.
func (s *Signer) UploadURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(URLTTL))
	if err != nil {
		return "", fmt.Errorf("presign put %s/%s: %w", s.bucket, key, err)
	}
	return req.URL, nil
}
