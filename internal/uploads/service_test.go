package uploads

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectClient in memory ObjectClient for tests
type fakeObjectClient struct {
	mu           sync.Mutex
	removedKeys  []string
	failKeys     map[string]error
	presignErr   error
	bucketExists bool
	bucketErr    error
}

func (f *fakeObjectClient) PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return url.Parse("https://s3.example.com/" + bucketName + "/" + objectName + "?X-Amz-Signature=abc")
}

func (f *fakeObjectClient) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failKeys[objectName]; ok {
		return err
	}
	f.removedKeys = append(f.removedKeys, objectName)
	return nil
}

func (f *fakeObjectClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return f.bucketExists, f.bucketErr
}

func newTestService(client ObjectClient) *Service {
	return NewService(client, "portfolio", "https://cdn.example.com", 5*time.Minute)
}

// --- BuildObjectKey ---

func TestBuildObjectKey_Scoping(t *testing.T) {
	tests := []struct {
		name       string
		postID     uint
		galleryID  uint
		wantPrefix string
	}{
		{"gallery scope", 0, 7, "galleries/7/"},
		{"post scope", 42, 0, "photos/post-42/"},
		{"gallery wins over post", 42, 7, "galleries/7/"},
		{"no scope falls back to temp", 0, 0, "photos/temp/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := BuildObjectKey("shot.jpg", tt.postID, tt.galleryID)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(key, tt.wantPrefix), "key %q should start with %q", key, tt.wantPrefix)
			assert.True(t, strings.HasSuffix(key, "-shot.jpg"))
		})
	}
}

func TestBuildObjectKey_UniquePerCall(t *testing.T) {
	a, err := BuildObjectKey("shot.jpg", 0, 0)
	require.NoError(t, err)
	b, err := BuildObjectKey("shot.jpg", 0, 0)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

// --- Presign ---

func TestPresign(t *testing.T) {
	svc := newTestService(&fakeObjectClient{})

	result, err := svc.Presign(context.Background(), "shot.jpg", "image/jpeg", 0, 7)
	require.NoError(t, err)

	assert.Contains(t, result.PresignedURL, "X-Amz-Signature")
	assert.True(t, strings.HasPrefix(result.Key, "galleries/7/"))
	assert.Equal(t, "https://cdn.example.com/"+result.Key, result.PublicURL)
}

func TestPresign_MissingFields(t *testing.T) {
	svc := newTestService(&fakeObjectClient{})

	_, err := svc.Presign(context.Background(), "", "image/jpeg", 0, 0)
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Presign(context.Background(), "shot.jpg", "", 0, 0)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestPresign_ClientError(t *testing.T) {
	svc := newTestService(&fakeObjectClient{presignErr: errors.New("connection refused")})

	_, err := svc.Presign(context.Background(), "shot.jpg", "image/jpeg", 0, 0)
	assert.Error(t, err)
}

// --- Confirm ---

func TestConfirm(t *testing.T) {
	svc := newTestService(&fakeObjectClient{})

	result, err := svc.Confirm("https://cdn.example.com/photos/temp/ab12cd34-shot.jpg", "shot.jpg", "image/jpeg", ContextFeatured)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "https://cdn.example.com/photos/temp/ab12cd34-shot.jpg", result.ImageURL)
	assert.Equal(t, ContextFeatured, result.Context)
	assert.Equal(t, "shot.jpg", result.Filename)
	assert.False(t, result.UploadedAt.IsZero())
}

func TestConfirm_Validation(t *testing.T) {
	svc := newTestService(&fakeObjectClient{})

	_, err := svc.Confirm("", "shot.jpg", "image/jpeg", ContextFeatured)
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Confirm("https://cdn.example.com/x", "shot.jpg", "image/jpeg", "avatar")
	assert.ErrorIs(t, err, ErrInvalidContext)
}

func TestIsValidContext(t *testing.T) {
	assert.True(t, IsValidContext(ContextFeatured))
	assert.True(t, IsValidContext(ContextPostBody))
	assert.True(t, IsValidContext(ContextGallery))
	assert.False(t, IsValidContext("avatar"))
	assert.False(t, IsValidContext(""))
}

// --- DeleteObjects ---

func TestDeleteObjects(t *testing.T) {
	client := &fakeObjectClient{}
	svc := newTestService(client)

	result := svc.DeleteObjects(context.Background(), []string{
		"https://cdn.example.com/photos/temp/aa11bb22-one.jpg",
		"https://cdn.example.com/galleries/7/cc33dd44-two.jpg",
	})

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, 0, result.Failed)
	assert.ElementsMatch(t, []string{
		"photos/temp/aa11bb22-one.jpg",
		"galleries/7/cc33dd44-two.jpg",
	}, client.removedKeys)
}

func TestDeleteObjects_PartialFailure(t *testing.T) {
	client := &fakeObjectClient{
		failKeys: map[string]error{
			"photos/temp/aa11bb22-one.jpg": errors.New("access denied"),
		},
	}
	svc := newTestService(client)

	result := svc.DeleteObjects(context.Background(), []string{
		"https://cdn.example.com/photos/temp/aa11bb22-one.jpg",
		"https://cdn.example.com/photos/temp/cc33dd44-two.jpg",
	})

	// still overall success: cleanup is best effort
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "https://cdn.example.com/photos/temp/aa11bb22-one.jpg", result.Errors[0].URL)
	assert.Contains(t, result.Errors[0].Error, "access denied")
}

func TestDeleteObjects_BasePathPrefix(t *testing.T) {
	client := &fakeObjectClient{}
	svc := NewService(client, "portfolio", "https://cdn.example.com/portfolio", 5*time.Minute)

	result := svc.DeleteObjects(context.Background(), []string{
		"https://cdn.example.com/portfolio/photos/temp/aa11bb22-one.jpg",
	})

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, []string{"photos/temp/aa11bb22-one.jpg"}, client.removedKeys)
}

// --- Health ---

func TestHealth(t *testing.T) {
	svc := newTestService(&fakeObjectClient{bucketExists: true})
	assert.NoError(t, svc.Health(context.Background()))

	svc = newTestService(&fakeObjectClient{bucketExists: false})
	assert.Error(t, svc.Health(context.Background()))

	svc = newTestService(&fakeObjectClient{bucketErr: errors.New("timeout")})
	assert.Error(t, svc.Health(context.Background()))
}
