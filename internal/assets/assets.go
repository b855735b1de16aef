// Package assets loads the result image sets shown for each predicted class.
package assets

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// MaxResults is the number of images in a result set, one per panel slot.
const MaxResults = 4

// ErrNoResults is returned when a class has no result directory or images.
var ErrNoResults = errors.New("assets: no result images")

// Store reads result images below <dir>/results/<class-or-label>/.
type Store struct {
	dir   string
	cache *lru.Cache[string, []image.Image]
}

// NewStore returns a store rooted at dir caching up to cacheSize sets.
func NewStore(dir string, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = 16
	}
	c, err := lru.New[string, []image.Image](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("assets: cache: %w", err)
	}
	return &Store{dir: dir, cache: c}, nil
}

// Dir returns the assets root.
func (s *Store) Dir() string { return s.dir }

// ResultSet returns up to MaxResults images for the prediction. A directory
// named after label is preferred; otherwise the class number is used.
func (s *Store) ResultSet(class int, label string) ([]image.Image, error) {
	var keys []string
	if name := sanitize(label); name != "" {
		keys = append(keys, name)
	}
	keys = append(keys, strconv.Itoa(class))

	for _, key := range keys {
		if imgs, ok := s.cache.Get(key); ok {
			return imgs, nil
		}
		files, err := s.list(key)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			continue
		}
		imgs, err := load(files)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, imgs)
		return imgs, nil
	}
	return nil, fmt.Errorf("%w: class %d %q", ErrNoResults, class, label)
}

// Background returns <dir>/empty.png, or nil when it does not exist.
func (s *Store) Background() (image.Image, error) {
	img, err := imaging.Open(filepath.Join(s.dir, "empty.png"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("assets: background: %w", err)
	}
	return img, nil
}

// Len reports the number of cached result sets.
func (s *Store) Len() int { return s.cache.Len() }

func (s *Store) list(key string) ([]string, error) {
	dir := filepath.Join(s.dir, "results", key)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("assets: list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	if len(files) > MaxResults {
		files = files[:MaxResults]
	}
	return files, nil
}

func load(files []string) ([]image.Image, error) {
	imgs := make([]image.Image, len(files))
	var g errgroup.Group
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			img, err := imaging.Open(f)
			if err != nil {
				return fmt.Errorf("assets: decode %s: %w", f, err)
			}
			imgs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return imgs, nil
}

// sanitize keeps label usable as a single path element.
func sanitize(label string) string {
	label = strings.TrimSpace(label)
	if label == "" || label == "." || label == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, label)
}
