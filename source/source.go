// Package source resolves a data source reference to a byte stream.
//
// Supported references:
//
//	prices.csv           local file
//	-                    standard input
//	https://host/x.csv   HTTP(S) GET
//	s3://bucket/key.csv  S3 object
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of the S3 client the opener needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener opens source references. The zero value works for files, stdin
// and HTTP; S3 clients are created on first use from the default AWS
// credential chain unless S3 is set.
type Opener struct {
	HTTP  *http.Client
	S3    ObjectGetter
	Stdin io.Reader
}

// Open is a convenience for (&Opener{}).Open.
func Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	var o Opener
	return o.Open(ctx, ref)
}

// Open returns a reader for ref. The caller closes it.
func (o *Opener) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, fmt.Errorf("empty source reference")
	case ref == "-":
		in := o.Stdin
		if in == nil {
			in = os.Stdin
		}
		return io.NopCloser(in), nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return o.openHTTP(ctx, ref)
	case strings.HasPrefix(ref, "s3://"):
		return o.openS3(ctx, ref)
	case strings.HasPrefix(ref, "file://"):
		ref = strings.TrimPrefix(ref, "file://")
	}

	f, err := os.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	return f, nil
}

func (o *Opener) openHTTP(ctx context.Context, ref string) (io.ReadCloser, error) {
	client := o.HTTP
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d: %s", ref, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp.Body, nil
}

// ParseS3 splits s3://bucket/key into its parts.
func ParseS3(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 reference: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("bad s3 reference %q", ref)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("s3 reference %q has no key", ref)
	}
	return u.Host, key, nil
}

func (o *Opener) openS3(ctx context.Context, ref string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3(ref)
	if err != nil {
		return nil, err
	}

	if o.S3 == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		o.S3 = s3.NewFromConfig(cfg)
	}

	out, err := o.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s: %w", ref, err)
	}
	return out.Body, nil
}

// Name returns a short display name for ref.
func Name(ref string) string {
	if ref == "-" {
		return "stdin"
	}
	return ref
}
