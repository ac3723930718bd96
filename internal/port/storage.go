package port

import (
	"context"
	"errors"
)

// ErrPreconditionFailed is returned by PutObject when the stored object no
// longer matches the condition in PutInput.
var ErrPreconditionFailed = errors.New("object storage precondition failed")

// Object is a fetched object and its entity tag.
type Object struct {
	Body        []byte
	ETag        string
	ContentType string
}

// PutInput encapsulates a conditional object write.
// IfMatch requires the current ETag to equal the value; IfNoneMatch "*"
// requires that no object exists yet. Both empty means unconditional.
type PutInput struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
	IfMatch     string
	IfNoneMatch string
}

// PutOutput contains the result of a successful write.
type PutOutput struct {
	ETag string
}

// ObjectStorage abstracts S3-compatible object storage operations.
// GetObject returns domain.ErrNotFound for a missing key.
type ObjectStorage interface {
	GetObject(ctx context.Context, bucket, key string) (*Object, error)
	PutObject(ctx context.Context, input PutInput) (*PutOutput, error)
	HeadBucket(ctx context.Context, bucket string) error
}
