// Package static serves files from a public directory through ember handlers:
// plain files with a detected Content-Type, and templates whose {time} and
// {request_id} tags are filled per request. File contents are cached in an LRU
// that a filesystem watcher keeps fresh.
package static

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrOutsideRoot indicates a request path that resolves outside the site root
var ErrOutsideRoot = errors.New("static: path escapes root")

// Site is a public directory served by File and Template handlers.
type Site struct {
	root  string
	cache *FileCache

	now   func() time.Time
	newID func() string
}

// NewSite serves the directory root, caching up to cacheEntries files.
func NewSite(root string, cacheEntries int) (*Site, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static: %s is not a directory", abs)
	}

	return &Site{
		root:  abs,
		cache: NewFileCache(cacheEntries),
		now:   time.Now,
		newID: uuid.NewString,
	}, nil
}

// Root returns the absolute site directory.
func (s *Site) Root() string { return s.root }

// Cache returns the site's file cache.
func (s *Site) Cache() *FileCache { return s.cache }

// resolve maps a URL path to a file under root. The path is cleaned as a
// slash path first, so ".." segments cannot climb above root.
func (s *Site) resolve(urlPath string) (string, error) {
	clean := path.Clean("/" + urlPath)
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, urlPath)
	}
	return full, nil
}
