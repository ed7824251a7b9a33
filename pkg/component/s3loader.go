package component

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	cerrors "github.com/vango-dev/compose/internal/errors"
)

// ObjectGetter is the part of *s3.Client the S3 loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Loader reads manifests from s3://<Bucket>/<Prefix><name>.json.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "eu-west-1"})
//	loader := component.NewS3Loader(client, "my-bucket", "components/", factories)
//	reg := component.NewLoaderRegistry(loader, queue)
type S3Loader struct {
	client    ObjectGetter
	bucket    string
	prefix    string
	factories Factories
}

// NewS3Loader creates an S3Loader.
func NewS3Loader(client ObjectGetter, bucket, prefix string, factories Factories) *S3Loader {
	return &S3Loader{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		factories: factories,
	}
}

// Key returns the object key holding name's manifest.
func (l *S3Loader) Key(name string) string {
	return l.prefix + name + ".json"
}

// Load implements Loader. A missing object means the component does not
// exist.
func (l *S3Loader) Load(ctx context.Context, name string) (*Definition, error) {
	if !ValidName(name) {
		return nil, nil
	}

	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.Key(name)),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, nil
		}
		return nil, cerrors.New("E210").
			WithDetailf("s3://%s/%s", l.bucket, l.Key(name)).
			Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxManifestSize))
	if err != nil {
		return nil, cerrors.New("E210").WithDetailf("reading s3://%s/%s", l.bucket, l.Key(name)).Wrap(err)
	}
	return decodeDefinition(name, data, l.factories)
}
