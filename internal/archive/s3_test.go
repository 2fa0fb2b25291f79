package archive

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/smartq/internal/config"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = *in.Bucket
	f.key = *in.Key
	f.contentType = *in.ContentType
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestNewWithoutBucketIsDisabled(t *testing.T) {
	if a := New(&config.Config{}); a != nil {
		t.Fatalf("expected nil archiver, got %+v", a)
	}
}

func TestNewWithBucket(t *testing.T) {
	a := New(&config.Config{
		S3Bucket:          "smartq",
		S3Region:          "us-east-1",
		S3Endpoint:        "http://localhost:9000",
		S3AccessKeyID:     "key",
		S3SecretAccessKey: "secret",
	})
	if a == nil || a.bucket != "smartq" {
		t.Fatalf("unexpected archiver: %+v", a)
	}
}

func TestPutWritesObject(t *testing.T) {
	fp := &fakePutter{}
	a := &S3Archiver{client: fp, bucket: "smartq"}

	if err := a.Put(context.Background(), "snapshots/2026-01-02.json", []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if fp.bucket != "smartq" || fp.key != "snapshots/2026-01-02.json" {
		t.Fatalf("wrong target %s/%s", fp.bucket, fp.key)
	}
	if fp.contentType != "application/json" || string(fp.body) != `{"ok":true}` {
		t.Fatalf("wrong payload %q %q", fp.contentType, fp.body)
	}
}

func TestPutWrapsError(t *testing.T) {
	boom := errors.New("boom")
	a := &S3Archiver{client: &fakePutter{err: boom}, bucket: "smartq"}

	if err := a.Put(context.Background(), "k", nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
