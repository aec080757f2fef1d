package image

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Store keeps images as objects under `Prefix` in `Bucket`.
type S3Store struct {
	Client s3iface.S3API
	Bucket string
	Prefix string
}

func (ss *S3Store) key(key string) string { return ss.Prefix + key }

func (ss *S3Store) PutImage(key string, data io.ReadSeeker) error {
	objectKey := ss.key(key)
	if _, err := ss.Client.PutObject(&s3.PutObjectInput{
		Bucket: &ss.Bucket,
		Key:    &objectKey,
		Body:   data,
	}); err != nil {
		return fmt.Errorf(
			"putting image in bucket `%s` at key `%s`: %w",
			ss.Bucket,
			objectKey,
			err,
		)
	}
	return nil
}

func (ss *S3Store) GetImage(key string) (io.ReadCloser, error) {
	objectKey := ss.key(key)
	rsp, err := ss.Client.GetObject(&s3.GetObjectInput{
		Bucket: &ss.Bucket,
		Key:    &objectKey,
	})
	if err != nil {
		if err, ok := err.(awserr.Error); ok {
			if err.Code() == s3.ErrCodeNoSuchKey {
				return nil, &ImageNotFoundErr{Key: key}
			}
		}
		return nil, fmt.Errorf(
			"getting image from bucket `%s` at key `%s`: %w",
			ss.Bucket,
			objectKey,
			err,
		)
	}
	return rsp.Body, nil
}

func (ss *S3Store) ListImages() ([]string, error) {
	var keys []string
	if err := ss.Client.ListObjectsPages(
		&s3.ListObjectsInput{
			Bucket: &ss.Bucket,
			Prefix: &ss.Prefix,
		},
		func(rsp *s3.ListObjectsOutput, lastPage bool) bool {
			for _, object := range rsp.Contents {
				keys = append(keys, strings.TrimPrefix(*object.Key, ss.Prefix))
			}
			return true
		},
	); err != nil {
		return keys, fmt.Errorf(
			"listing images in bucket `%s` with prefix `%s`: %w",
			ss.Bucket,
			ss.Prefix,
			err,
		)
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteImage checks for the object first since S3 deletes of missing keys
// succeed.
func (ss *S3Store) DeleteImage(key string) error {
	objectKey := ss.key(key)
	if _, err := ss.Client.HeadObject(&s3.HeadObjectInput{
		Bucket: &ss.Bucket,
		Key:    &objectKey,
	}); err != nil {
		if err, ok := err.(awserr.Error); ok {
			switch err.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return &ImageNotFoundErr{Key: key}
			}
		}
		return fmt.Errorf("deleting image `%s`: %w", objectKey, err)
	}
	if _, err := ss.Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &ss.Bucket,
		Key:    &objectKey,
	}); err != nil {
		return fmt.Errorf("deleting image `%s`: %w", objectKey, err)
	}
	return nil
}

var _ Store = &S3Store{}
