package extract

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectcare/reflection-platform/internal/pipeline"
)

type stubS3 struct {
	body []byte
	err  error

	gotBucket string
	gotKey    string
}

func (s *stubS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	s.gotBucket = *params.Bucket
	s.gotKey = *params.Key
	if s.err != nil {
		return nil, s.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(s.body))}, nil
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("artifact bytes"))
	}))
	defer srv.Close()

	f := NewArtifactFetcher(srv.Client(), nil)
	data, err := f.Fetch(context.Background(), srv.URL+"/artifact.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("artifact bytes"), data)
}

func TestFetchHTTPNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewArtifactFetcher(srv.Client(), nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Equal(t, pipeline.KindDownload, pipeline.KindOf(err))
}

func TestFetchS3(t *testing.T) {
	s3c := &stubS3{body: []byte("s3 artifact")}
	f := NewArtifactFetcher(nil, s3c)

	data, err := f.Fetch(context.Background(), "s3://reflect-artifacts/uploads/notes.docx")
	require.NoError(t, err)
	assert.Equal(t, []byte("s3 artifact"), data)
	assert.Equal(t, "reflect-artifacts", s3c.gotBucket)
	assert.Equal(t, "uploads/notes.docx", s3c.gotKey)
}

func TestFetchS3Failure(t *testing.T) {
	f := NewArtifactFetcher(nil, &stubS3{err: errors.New("access denied")})
	_, err := f.Fetch(context.Background(), "s3://bucket/key")
	require.Error(t, err)
	assert.Equal(t, pipeline.KindDownload, pipeline.KindOf(err))
}

func TestFetchS3Unconfigured(t *testing.T) {
	f := NewArtifactFetcher(nil, nil)
	_, err := f.Fetch(context.Background(), "s3://bucket/key")
	require.Error(t, err)
	assert.Equal(t, pipeline.KindDownload, pipeline.KindOf(err))
}

func TestFetchBadURIs(t *testing.T) {
	f := NewArtifactFetcher(nil, &stubS3{})
	for _, uri := range []string{"ftp://host/file", "file:///etc/passwd", "s3://bucketonly", ""} {
		_, err := f.Fetch(context.Background(), uri)
		require.Error(t, err, "uri %q", uri)
		assert.Equal(t, pipeline.KindDownload, pipeline.KindOf(err))
	}
}
