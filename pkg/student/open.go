package student

import "fmt"

// Options selects and configures a store driver for Open.
type Options struct {
	Driver     string // memory, file, bolt or s3
	Path       string // file driver
	BoltPath   string
	BoltBucket string
	S3         S3ClientOptions
	S3Bucket   string
	S3Key      string

	// S3Client overrides the client built from S3.
	S3Client S3API
}

// Open returns the store selected by opts.Driver.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "", "file":
		path := opts.Path
		if path == "" {
			path = "db.json"
		}
		return NewFileStore(path), nil
	case "bolt":
		bucket := opts.BoltBucket
		if bucket == "" {
			bucket = "students"
		}
		return OpenBoltStore(opts.BoltPath, bucket)
	case "s3":
		if opts.S3Bucket == "" {
			return nil, fmt.Errorf("student: s3 driver needs a bucket")
		}
		client := opts.S3Client
		if client == nil {
			client = NewS3Client(opts.S3)
		}
		return NewS3Store(client, opts.S3Bucket, opts.S3Key), nil
	}
	return nil, fmt.Errorf("student: unknown driver %q", opts.Driver)
}

// DriverOf returns the driver name of s, or "unknown".
func DriverOf(s Store) string {
	if d, ok := s.(interface{ Driver() string }); ok {
		return d.Driver()
	}
	return "unknown"
}
