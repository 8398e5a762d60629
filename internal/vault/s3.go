package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hearthlabs/hearthcore/internal/common"
	"github.com/hearthlabs/hearthcore/internal/cryptox"
)

// s3API is the slice of the S3 client the repository uses, satisfied
// by *s3.Client and stubbed in tests.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Repository stores sealed records as objects in an S3-compatible
// bucket, one object per record. The object body is the 12-byte nonce
// followed by the ciphertext; the payload is already encrypted and
// authenticated before it leaves the process, so the object store is
// never trusted with plaintext.
type S3Repository struct {
	client s3API
	bucket string
}

// NewS3Repository constructs a repository over an existing S3 client.
func NewS3Repository(client s3API, bucket string) *S3Repository {
	return &S3Repository{client: client, bucket: bucket}
}

func objectKey(userID, collection, recordID string) string {
	return path.Join("vault", userID, collection, recordID)
}

func (r *S3Repository) Put(ctx context.Context, rec *Record) error {
	body := make([]byte, 0, len(rec.Nonce)+len(rec.Ciphertext))
	body = append(body, rec.Nonce...)
	body = append(body, rec.Ciphertext...)

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(rec.UserID, rec.Collection, rec.RecordID)),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("s3 put: %w", err)
	}
	return nil
}

func (r *S3Repository) Get(ctx context.Context, userID, collection, recordID string) (*Record, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(userID, collection, recordID)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read: %w", err)
	}

	rec := &Record{UserID: userID, Collection: collection, RecordID: recordID}
	if len(body) >= cryptox.NonceSize {
		rec.Nonce = body[:cryptox.NonceSize]
		rec.Ciphertext = body[cryptox.NonceSize:]
	} else {
		// Truncated object: hand it to the cipher as-is and let
		// authentication fail closed.
		rec.Nonce = body
	}
	return rec, nil
}

func (r *S3Repository) Delete(ctx context.Context, userID, collection, recordID string) error {
	// S3 deletes are idempotent already: deleting a missing key
	// succeeds.
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(userID, collection, recordID)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete: %w", err)
	}
	return nil
}

func (r *S3Repository) List(ctx context.Context, userID, collection string) ([]string, error) {
	prefix := objectKey(userID, collection, "") + "/"

	ids := make([]string, 0)
	var continuation *string
	for {
		out, err := r.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(r.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 list: %w", err)
		}
		for _, obj := range out.Contents {
			if obj.Key == nil {
				continue
			}
			ids = append(ids, strings.TrimPrefix(*obj.Key, prefix))
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}
	return ids, nil
}
