package dataset

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sort"
	"time"

	"tweetsync/pkg/logger"
)

// Post is one persisted image-bearing tweet. Identity key: ID.
// Every persisted post has at least one image; posts without photo
// attachments never reach the dataset.
type Post struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	CreatedAt string          `json:"created_at"`
	Metrics   json.RawMessage `json:"public_metrics,omitempty"`
	Images    []Image         `json:"images"`
	TweetURL  string          `json:"tweet_url"`
}

// Image is a photo attachment of a post
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Store reads and writes the dataset file
type Store struct {
	path   string
	logger logger.Logger
}

// NewStore creates a store for the given dataset path
func NewStore(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Store{path: path, logger: log}
}

// Path returns the dataset file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the dataset file is present on disk
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the persisted dataset. A missing or unparseable file is
// treated as an empty dataset, never as a fatal condition.
func (s *Store) Load() []Post {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WarnWithFields("failed to read dataset file, starting empty", map[string]interface{}{
				"path":  s.path,
				"error": err.Error(),
			})
		}
		return nil
	}

	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		s.logger.WarnWithFields("failed to parse dataset file, starting empty", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		return nil
	}

	s.logger.DebugWithFields("dataset loaded", map[string]interface{}{
		"path":  s.path,
		"count": len(posts),
	})

	return posts
}

// Save writes the dataset atomically: encode to a temporary file, then
// rename over the target. Output is indented for human readability.
func (s *Store) Save(posts []Post) error {
	if posts == nil {
		posts = []Post{}
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary dataset file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(posts); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync dataset file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close dataset file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace dataset file: %w", err)
	}

	s.logger.DebugWithFields("dataset saved", map[string]interface{}{
		"path":  s.path,
		"count": len(posts),
	})

	return nil
}

// MaxID computes the watermark: the largest post ID compared as an
// arbitrary-precision integer. Tweet IDs exceed 53-bit float precision,
// so neither lexicographic nor native float comparison is safe.
// Returns "" for an empty dataset.
func MaxID(posts []Post) string {
	var max *big.Int
	var maxStr string

	for _, p := range posts {
		n, ok := new(big.Int).SetString(p.ID, 10)
		if !ok {
			continue
		}
		if max == nil || n.Cmp(max) > 0 {
			max = n
			maxStr = p.ID
		}
	}

	return maxStr
}

// IDSet returns the set of post IDs for duplicate checks
func IDSet(posts []Post) map[string]bool {
	set := make(map[string]bool, len(posts))
	for _, p := range posts {
		set[p.ID] = true
	}
	return set
}

// SortPosts orders posts descending by creation time. Ties are broken by
// descending big-integer ID so the order is deterministic for identical
// input.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		ti := parseCreatedAt(posts[i].CreatedAt)
		tj := parseCreatedAt(posts[j].CreatedAt)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return compareIDs(posts[i].ID, posts[j].ID) > 0
	})
}

// parseCreatedAt parses an API timestamp; unparseable values sort last
func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// compareIDs compares two numeric post IDs as big integers. IDs that do
// not parse fall back to plain string comparison.
func compareIDs(a, b string) int {
	na, okA := new(big.Int).SetString(a, 10)
	nb, okB := new(big.Int).SetString(b, 10)
	if okA && okB {
		return na.Cmp(nb)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
