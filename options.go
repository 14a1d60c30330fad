package zpaq

import (
	"go.uber.org/zap"
)

type Option func(*options) error

type options struct {
	logger   *zap.Logger
	filename *string
	comment  *string
	sha1     bool
}

func (o *options) setDefault() {
	*o = options{
		logger: zap.NewNop(),
	}
}

func (o *options) apply(opts []Option) error {
	o.setDefault()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// validate NUL-checks the optional metadata before it crosses the boundary.
func (o *options) validate() error {
	if o.filename != nil {
		if err := checkNul("filename", *o.filename); err != nil {
			return err
		}
	}
	if o.comment != nil {
		if err := checkNul("comment", *o.comment); err != nil {
			return err
		}
	}
	return nil
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) error { o.logger = l; return nil }
}

// WithFilename stores a filename in the first segment header of the stream.
func WithFilename(name string) Option {
	return func(o *options) error { o.filename = &name; return nil }
}

// WithComment stores a comment in the first segment header of the stream.
func WithComment(comment string) Option {
	return func(o *options) error { o.comment = &comment; return nil }
}

// WithSHA1 appends a SHA-1 checksum of the uncompressed data to each segment,
// verified on decompression.
func WithSHA1(enabled bool) Option {
	return func(o *options) error { o.sha1 = enabled; return nil }
}
