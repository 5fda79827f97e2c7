package uploads

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fotonatura/portfolio-api/utils"
	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"
)

// Valid confirm contexts. This is the single place the set is defined;
// it grows here and nowhere else.
const (
	ContextFeatured = "featured"
	ContextPostBody = "post-body"
	ContextGallery  = "gallery"
)

var validContexts = map[string]struct{}{
	ContextFeatured: {},
	ContextPostBody: {},
	ContextGallery:  {},
}

// IsValidContext reports whether ctx names a known upload context
func IsValidContext(ctx string) bool {
	_, ok := validContexts[ctx]
	return ok
}

var (
	// ErrMissingFields filename or content type absent
	ErrMissingFields = errors.New("filename and contentType are required")
	// ErrInvalidContext confirm called with an unknown context
	ErrInvalidContext = errors.New("invalid upload context")
)

// ObjectClient is the slice of the MinIO client the broker needs.
// *minio.Client satisfies it; tests substitute a fake.
type ObjectClient interface {
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// Service hands out signed upload URLs and revokes uploaded objects. It
// never touches the file bytes; clients upload directly to object storage.
type Service struct {
	client        ObjectClient
	bucketName    string
	publicBaseURL string
	presignExpiry time.Duration
	opTimeout     time.Duration
}

// NewService creates a new upload broker. publicBaseURL must map to the
// bucket root: the public URL of an object is publicBaseURL + "/" + key.
func NewService(client ObjectClient, bucketName, publicBaseURL string, presignExpiry time.Duration) *Service {
	if presignExpiry <= 0 {
		presignExpiry = 5 * time.Minute
	}
	return &Service{
		client:        client,
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		presignExpiry: presignExpiry,
		opTimeout:     10 * time.Second,
	}
}

// PresignResult signed upload grant
type PresignResult struct {
	PresignedURL string `json:"presignedUrl"`
	PublicURL    string `json:"publicUrl"`
	Key          string `json:"key"`
}

// ConfirmResult client acknowledged upload, echoed back
type ConfirmResult struct {
	Success    bool      `json:"success"`
	ImageURL   string    `json:"imageUrl"`
	Context    string    `json:"context"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DeleteError per item deletion failure
type DeleteError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// DeleteResult batch deletion summary. Success stays true even when every
// item failed; object cleanup is advisory, not load bearing.
type DeleteResult struct {
	Success bool          `json:"success"`
	Deleted int           `json:"deleted"`
	Failed  int           `json:"failed"`
	Errors  []DeleteError `json:"errors"`
}

// BuildObjectKey builds a collision resistant key. Scope precedence:
// gallery, then post, then the temp holding area.
func BuildObjectKey(filename string, postID, galleryID uint) (string, error) {
	uniqueID, err := utils.GenerateRandomHex(4)
	if err != nil {
		return "", fmt.Errorf("failed to generate object id: %w", err)
	}

	var folder string
	switch {
	case galleryID != 0:
		folder = fmt.Sprintf("galleries/%d", galleryID)
	case postID != 0:
		folder = fmt.Sprintf("photos/post-%d", postID)
	default:
		folder = "photos/temp"
	}

	return fmt.Sprintf("%s/%s-%s", folder, uniqueID, filename), nil
}

// Presign issues a time boxed signed PUT URL plus the matching public URL
func (s *Service) Presign(ctx context.Context, filename, contentType string, postID, galleryID uint) (*PresignResult, error) {
	if filename == "" || contentType == "" {
		return nil, ErrMissingFields
	}

	key, err := BuildObjectKey(filename, postID, galleryID)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	presignedURL, err := s.client.PresignedPutObject(opCtx, s.bucketName, key, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignResult{
		PresignedURL: presignedURL.String(),
		PublicURL:    s.publicBaseURL + "/" + key,
		Key:          key,
	}, nil
}

// Confirm acknowledges a completed client upload. Purely advisory: the
// object's existence is not verified, the public URL is echoed back.
func (s *Service) Confirm(publicURL, filename, contentType, uploadContext string) (*ConfirmResult, error) {
	if publicURL == "" || filename == "" || contentType == "" || uploadContext == "" {
		return nil, ErrMissingFields
	}
	if !IsValidContext(uploadContext) {
		return nil, ErrInvalidContext
	}

	return &ConfirmResult{
		Success:    true,
		ImageURL:   publicURL,
		Context:    uploadContext,
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// DeleteObjects removes objects by public URL, best effort. Items are
// independent and deleted in parallel; one failure never aborts the rest.
func (s *Service) DeleteObjects(ctx context.Context, urls []string) *DeleteResult {
	result := &DeleteResult{Success: true, Errors: []DeleteError{}}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, rawURL := range urls {
		rawURL := rawURL
		g.Go(func() error {
			key, err := s.extractKey(rawURL)
			if err == nil {
				opCtx, cancel := context.WithTimeout(gCtx, s.opTimeout)
				err = s.client.RemoveObject(opCtx, s.bucketName, key, minio.RemoveObjectOptions{})
				cancel()
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("Failed to delete object %s: %v", utils.SanitizeLogMessage(rawURL), err)
				result.Failed++
				result.Errors = append(result.Errors, DeleteError{URL: rawURL, Error: err.Error()})
			} else {
				result.Deleted++
			}
			return nil
		})
	}

	_ = g.Wait()

	log.Printf("Deletion summary: %d deleted, %d failed", result.Deleted, result.Failed)
	return result
}

// Health checks bucket reachability
func (s *Service) Health(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	exists, err := s.client.BucketExists(opCtx, s.bucketName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.bucketName)
	}
	return nil
}

// extractKey recovers the object key from a public URL path, stripping the
// public base URL's own path prefix when it has one.
func (s *Service) extractKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	keyPath := u.Path
	if base, baseErr := url.Parse(s.publicBaseURL); baseErr == nil && base.Path != "" {
		keyPath = strings.TrimPrefix(keyPath, base.Path)
	}

	key := strings.TrimPrefix(keyPath, "/")
	if key == "" {
		return "", errors.New("URL has no object key")
	}
	return key, nil
}
