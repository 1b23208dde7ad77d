package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Placeholder references returned instead of an artifact path. They point at
// static assets shipped with the frontend.
const (
	PlaceholderNoImage     = "/images/placeholder.png"
	PlaceholderFetchFailed = "/images/fetch-failed.png"
)

// ImageStore caches remote product images on the local artifact store, keyed
// by a hash of the source URL. The same URL always maps to the same artifact;
// entries are never invalidated.
type ImageStore interface {
	// Fetch downloads and caches the image at rawURL, returning its public
	// reference. It never fails: an empty URL yields PlaceholderNoImage and
	// any fetch or write failure yields PlaceholderFetchFailed, so one bad
	// URL cannot abort a batch.
	Fetch(ctx context.Context, rawURL string) string

	// LocalPath maps a public reference produced by Fetch back to the file
	// on disk. Returns false for placeholders and foreign references.
	LocalPath(ref string) (string, bool)
}

type diskImageStore struct {
	dir        string
	publicPath string
	client     *http.Client
}

// NewDiskImageStore creates an ImageStore rooted at dir. Artifacts are
// addressable under publicPath by the static file server.
func NewDiskImageStore(dir, publicPath string) (ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &diskImageStore{
		dir:        dir,
		publicPath: publicPath,
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *diskImageStore) Fetch(ctx context.Context, rawURL string) string {
	src := strings.Trim(strings.TrimSpace(rawURL), `"'`)
	if src == "" {
		return PlaceholderNoImage
	}

	name := derivedImageName(src)
	local := filepath.Join(s.dir, name)
	if _, err := os.Stat(local); err == nil {
		return path.Join(s.publicPath, name) // cache hit, no network call
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		log.Printf("WARN: invalid image URL %q: %v", src, err)
		return PlaceholderFetchFailed
	}
	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("WARN: failed to download image %q: %v", src, err)
		return PlaceholderFetchFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("WARN: image download %q returned status %d", src, resp.StatusCode)
		return PlaceholderFetchFailed
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("WARN: failed to read image body %q: %v", src, err)
		return PlaceholderFetchFailed
	}

	if err := writeFileAtomic(s.dir, local, data); err != nil {
		log.Printf("WARN: failed to store image %q: %v", src, err)
		return PlaceholderFetchFailed
	}

	return path.Join(s.publicPath, name)
}

func (s *diskImageStore) LocalPath(ref string) (string, bool) {
	if !strings.HasPrefix(ref, s.publicPath+"/") {
		return "", false
	}
	name := strings.TrimPrefix(ref, s.publicPath+"/")
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

// derivedImageName builds the content-addressed artifact filename
// image-<md5(url)>.<ext>. The extension comes from the URL path; query
// strings are ignored.
func derivedImageName(src string) string {
	sum := md5.Sum([]byte(src))
	ext := ".jpg"
	if u, err := url.Parse(src); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return fmt.Sprintf("image-%s%s", hex.EncodeToString(sum[:]), ext)
}

// writeFileAtomic writes via a temp file in the same directory and renames,
// so concurrent fetches of the same URL can never observe a partial artifact.
func writeFileAtomic(dir, dst string, data []byte) error {
	tmp, err := os.CreateTemp(dir, filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
