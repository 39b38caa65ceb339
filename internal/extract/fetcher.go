package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/reflectcare/reflection-platform/internal/pipeline"
)

// Fetcher retrieves artifact bytes by reference URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// S3API is the subset of the S3 client used by ArtifactFetcher.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ArtifactFetcher fetches https:// URLs over plain HTTP and s3:// URIs
// through the S3 client. Any fetch failure is terminal; there is no retry.
type ArtifactFetcher struct {
	httpClient *http.Client
	s3Client   S3API
}

// NewArtifactFetcher creates a fetcher. s3Client may be nil, in which case
// s3:// URIs fail with a download error.
func NewArtifactFetcher(httpClient *http.Client, s3Client S3API) *ArtifactFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ArtifactFetcher{httpClient: httpClient, s3Client: s3Client}
}

// Fetch downloads the artifact. Non-2xx responses are hard failures.
func (f *ArtifactFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "s3://"):
		return f.fetchS3(ctx, uri)
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return f.fetchHTTP(ctx, uri)
	default:
		return nil, pipeline.E(pipeline.KindDownload, "unsupported artifact URI scheme in %q", uri)
	}
}

func (f *ArtifactFetcher) fetchHTTP(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindDownload, err, "invalid artifact URL")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindDownload, err, "failed to download artifact")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pipeline.E(pipeline.KindDownload, "failed to download artifact: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindDownload, err, "failed to read artifact body")
	}
	return data, nil
}

func (f *ArtifactFetcher) fetchS3(ctx context.Context, uri string) ([]byte, error) {
	if f.s3Client == nil {
		return nil, pipeline.E(pipeline.KindDownload, "s3 artifact storage is not configured")
	}

	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindDownload, err, "invalid s3 artifact URI")
	}

	out, err := f.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindDownload, err, "failed to download artifact from s3")
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindDownload, err, "failed to read s3 artifact body")
	}
	return data, nil
}

func splitS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("expected s3://bucket/key, got %q", uri)
	}
	return bucket, key, nil
}
