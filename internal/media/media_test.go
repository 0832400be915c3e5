package media_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/media"
)

// fakeS3 is an http.RoundTripper standing in for the S3 API. It records
// PutObject calls and can be told to answer with an error document.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	status int    // non-zero forces an error response
	code   string // S3 error code for the forced response
	err    error  // transport failure
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.status != 0 {
		body := "<?xml version=\"1.0\" encoding=\"UTF-8\"?><Error><Code>" + f.code +
			"</Code><Message>forced</Message></Error>"
		return &http.Response{
			StatusCode: f.status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{"Content-Type": {"application/xml"}},
			Request:    req,
		}, nil
	}
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}, Request: req}, nil
	}
	body, _ := io.ReadAll(req.Body)
	f.mu.Lock()
	f.objects[strings.TrimPrefix(req.URL.Path, "/")] = body
	f.types[strings.TrimPrefix(req.URL.Path, "/")] = req.Header.Get("Content-Type")
	f.mu.Unlock()
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{"ETag": {"\"etag\""}},
		Request:    req,
	}, nil
}

func newS3Store(t *testing.T, rt http.RoundTripper, cfg media.S3Config) *media.S3Store {
	t.Helper()
	if cfg.Bucket == "" {
		cfg.Bucket = "photos-bucket"
	}
	cfg.Endpoint = "https://mock.s3.local"
	cfg.PathStyle = true
	cfg.AccessKeyID = "AKIA"
	cfg.SecretAccessKey = "SECRET"
	s, err := media.NewS3Store(context.Background(), cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.Retryer = aws.NopRetryer{}
	})
	require.NoError(t, err)
	return s
}

func TestS3Store_Put(t *testing.T) {
	fake := newFakeS3()
	s := newS3Store(t, fake, media.S3Config{})

	url, err := s.Put(context.Background(), "abc.jpg", "image/jpeg", strings.NewReader("jpegdata"))

	require.NoError(t, err)
	assert.Equal(t, "https://mock.s3.local/photos-bucket/photos/abc.jpg", url)
	assert.Equal(t, []byte("jpegdata"), fake.objects["photos-bucket/photos/abc.jpg"])
	assert.Equal(t, "image/jpeg", fake.types["photos-bucket/photos/abc.jpg"])
}

func TestS3Store_Put_PublicBaseURL(t *testing.T) {
	s := newS3Store(t, newFakeS3(), media.S3Config{PublicBaseURL: "https://cdn.example.com/"})

	url, err := s.Put(context.Background(), "abc.png", "image/png", strings.NewReader("png"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/photos/abc.png", url)
}

func TestS3Store_Put_NotConfigured(t *testing.T) {
	s, err := media.NewS3Store(context.Background(), media.S3Config{})
	require.NoError(t, err)
	assert.False(t, s.Configured())

	_, err = s.Put(context.Background(), "abc.jpg", "image/jpeg", strings.NewReader("x"))

	assert.Equal(t, domain.KindNotConfigured, domain.KindOf(err))
}

func TestS3Store_Put_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   domain.StoreErrorKind
	}{
		{"missing bucket", http.StatusNotFound, "NoSuchBucket", domain.KindNotFound},
		{"throttled", http.StatusServiceUnavailable, "SlowDown", domain.KindTransient},
		{"access denied", http.StatusForbidden, "AccessDenied", domain.KindUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeS3()
			fake.status, fake.code = tc.status, tc.code
			s := newS3Store(t, fake, media.S3Config{})

			_, err := s.Put(context.Background(), "abc.jpg", "image/jpeg", strings.NewReader("x"))

			require.Error(t, err)
			assert.Equal(t, tc.want, domain.KindOf(err))
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestS3Store_Put_UnreachableIsTransient(t *testing.T) {
	fake := newFakeS3()
	fake.err = timeoutErr{}
	s := newS3Store(t, fake, media.S3Config{})

	_, err := s.Put(context.Background(), "abc.jpg", "image/jpeg", strings.NewReader("x"))

	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
}

func TestDirStore_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "media")
	d, err := media.NewDirStore(dir, "/media/")
	require.NoError(t, err)

	url, err := d.Put(context.Background(), "abc.jpg", "image/jpeg", strings.NewReader("jpegdata"))

	require.NoError(t, err)
	assert.Equal(t, "/media/abc.jpg", url)
	got, err := os.ReadFile(filepath.Join(dir, "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestDirStore_Put_RejectsPaths(t *testing.T) {
	d, err := media.NewDirStore(t.TempDir(), "/media")
	require.NoError(t, err)

	for _, name := range []string{"", "../evil.jpg", "a/b.jpg", ".hidden"} {
		_, err := d.Put(context.Background(), name, "image/jpeg", strings.NewReader("x"))
		assert.ErrorIs(t, err, domain.ErrValidation, "name %q", name)
	}
}

func TestDirStore_Put_ReadFailure(t *testing.T) {
	d, err := media.NewDirStore(t.TempDir(), "/media")
	require.NoError(t, err)

	_, err = d.Put(context.Background(), "abc.jpg", "image/jpeg", io.MultiReader(strings.NewReader("x"), errReader{}))

	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(d.Dir(), "abc.jpg"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestIsImage(t *testing.T) {
	assert.True(t, media.IsImage("image/png"))
	assert.True(t, media.IsImage("IMAGE/JPEG; charset=binary"))
	assert.True(t, media.IsImage("image/webp"))
	assert.False(t, media.IsImage("image/svg+xml"))
	assert.False(t, media.IsImage("text/plain"))
	assert.False(t, media.IsImage(""))
}

func TestObjectName(t *testing.T) {
	a := media.ObjectName("Photo.JPG", "image/jpeg")
	b := media.ObjectName("Photo.JPG", "image/jpeg")

	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36+len(".jpg"))
}

func TestObjectName_ExtensionFollowsContentType(t *testing.T) {
	assert.True(t, strings.HasSuffix(media.ObjectName("shot.jpeg", "image/jpeg"), ".jpeg"))
	assert.True(t, strings.HasSuffix(media.ObjectName("page.html", "image/png"), ".png"))
	assert.True(t, strings.HasSuffix(media.ObjectName("noext", "image/gif"), ".gif"))
}
