// Package firebase stores menu images (products, promotions, establishment
// logos) in the project's Cloud Storage bucket.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// Upload folders inside the bucket.
const (
	FolderProducts   = "products"
	FolderPromotions = "promotions"
	FolderLogos      = "logos"
)

const publicHost = "https://storage.googleapis.com/"

// ErrUnmanagedURL is returned for URLs that do not point into a bucket.
var ErrUnmanagedURL = errors.New("not a storage URL")

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeFilename(filename string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(filename, "_")
	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}
	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}
	return sanitized
}

func objectPath(folder, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d_%s", folder, now.Unix(), sanitizeFilename(filename))
}

func publicURL(bucketName, objectPath string) string {
	return publicHost + bucketName + "/" + objectPath
}

// ObjectPathFromURL reverses the public URL of an uploaded image into its
// object path inside the bucket.
func ObjectPathFromURL(url string) (string, error) {
	if !strings.HasPrefix(url, publicHost) {
		return "", ErrUnmanagedURL
	}
	_, path, found := strings.Cut(strings.TrimPrefix(url, publicHost), "/")
	if !found || path == "" {
		return "", fmt.Errorf("%w: missing object path in %s", ErrUnmanagedURL, url)
	}
	return path, nil
}

// Bucket is the StorageClient backed by Firebase.
type Bucket struct {
	app  *firebase.App
	name string
}

// NewBucket initializes the Firebase app. credentials is either inline JSON
// or a path to a service account file; empty means default credentials.
// An empty bucket name is accepted, but every upload will then fail.
func NewBucket(ctx context.Context, credentials, bucketName string) (*Bucket, error) {
	var opts []option.ClientOption
	switch {
	case strings.HasPrefix(credentials, "{"):
		log.Println("Using Firebase credentials from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(credentials)))
	case credentials != "":
		log.Println("Using Firebase credentials from file:", credentials)
		opts = append(opts, option.WithCredentialsFile(credentials))
	default:
		log.Println("Warning: GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase init: %w", err)
	}
	log.Println("Firebase initialized successfully")
	return &Bucket{app: app, name: bucketName}, nil
}

func (b *Bucket) handle(ctx context.Context) (*storage.BucketHandle, error) {
	if b == nil || b.app == nil {
		return nil, errors.New("firebase app not initialized")
	}
	if b.name == "" {
		return nil, errors.New("FIREBASE_STORAGE_BUCKET not set")
	}
	client, err := b.app.Storage(ctx)
	if err != nil {
		return nil, err
	}
	return client.Bucket(b.name)
}

// UploadImage stores the file under folder and returns its public URL.
func (b *Bucket) UploadImage(ctx context.Context, folder string, file io.Reader, filename, contentType string) (string, error) {
	h, err := b.handle(ctx)
	if err != nil {
		return "", err
	}

	path := objectPath(folder, filename, time.Now())
	obj := h.Object(path)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	// The public menu links images directly.
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		log.Printf("Warning: failed to set public ACL on %s: %v", path, err)
	}
	return publicURL(b.name, path), nil
}

// DeleteFile removes the object at objectPath.
func (b *Bucket) DeleteFile(ctx context.Context, objectPath string) error {
	h, err := b.handle(ctx)
	if err != nil {
		return err
	}
	if err := h.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("delete object %s: %w", objectPath, err)
	}
	log.Printf("Deleted file %s from bucket %s", objectPath, b.name)
	return nil
}
