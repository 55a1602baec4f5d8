package corpus

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shipq/proptest/dburl"
)

// Open returns the store a corpus URL points at. s3 is only used for
// s3:// URLs.
func Open(ctx context.Context, rawURL string, s3opts S3Options) (Store, error) {
	loc, err := dburl.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	switch loc.Kind {
	case dburl.KindDir:
		return NewDirStore(loc.Path)
	case dburl.KindS3:
		return NewS3Store(NewS3Client(s3opts), loc.Bucket, loc.Prefix), nil
	case dburl.KindSQL:
		return OpenSQL(ctx, rawURL)
	default:
		return nil, errors.Wrapf(dburl.ErrInvalidURL, "unsupported corpus kind %q", loc.Kind)
	}
}
