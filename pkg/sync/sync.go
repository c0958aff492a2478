package sync

import (
	"context"
	"fmt"

	"tweetsync/pkg/config"
	"tweetsync/pkg/dataset"
	"tweetsync/pkg/logger"
	"tweetsync/pkg/twitter"
)

// Report summarizes the outcome of one sync run
type Report struct {
	// Added is the number of newly persisted posts
	Added int
	// Total is the number of posts in the dataset after the run
	Total int
	// Wrote reports whether the dataset file was (re)written
	Wrote bool
}

// Summary returns the human-readable run summary
func (r *Report) Summary() string {
	if r.Added == 0 {
		return "沒有新的含圖貼文"
	}
	return fmt.Sprintf("新增 %d 筆，總共 %d 筆", r.Added, r.Total)
}

// Engine orchestrates one fetch-and-merge run
type Engine struct {
	resolver AccountResolver
	fetcher  TweetFetcher
	store    *dataset.Store
	handle   string
	logger   logger.Logger
}

// New creates a sync engine. The Twitter client satisfies both the
// resolver and fetcher interfaces.
func New(client *twitter.Client, store *dataset.Store, cfg *config.Config, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Engine{
		resolver: client,
		fetcher:  client,
		store:    store,
		handle:   cfg.Twitter.Handle,
		logger:   log,
	}
}

// NewWithDeps creates a sync engine with explicit collaborators, used by
// tests to substitute deterministic fakes.
func NewWithDeps(resolver AccountResolver, fetcher TweetFetcher, store *dataset.Store, handle string, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Engine{
		resolver: resolver,
		fetcher:  fetcher,
		store:    store,
		handle:   handle,
		logger:   log,
	}
}

// Run executes one sync. In incremental mode (full=false) the existing
// dataset is loaded and only tweets newer than the highest known ID are
// requested; in full mode the existing dataset is ignored and the
// fetched set replaces it entirely.
func (e *Engine) Run(ctx context.Context, full bool) (*Report, error) {
	mode := "incremental"
	if full {
		mode = "full"
	}
	e.logger.InfoWithFields("starting sync", map[string]interface{}{
		"handle": e.handle,
		"mode":   mode,
	})

	// In full mode the existing file is not read for merge purposes;
	// it is simply overwritten at the end
	var existing []dataset.Post
	if !full {
		existing = e.store.Load()
	}

	// Watermark: highest known ID, big-integer comparison
	sinceID := ""
	if !full && len(existing) > 0 {
		sinceID = dataset.MaxID(existing)
		e.logger.DebugWithFields("computed watermark", map[string]interface{}{
			"since_id": sinceID,
			"existing": len(existing),
		})
	}

	userID, err := e.resolver.ResolveUserID(ctx, e.handle)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %q: %w", e.handle, err)
	}

	resp, err := e.fetcher.FetchTweets(ctx, userID, sinceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tweets: %w", err)
	}

	if len(resp.Data) == 0 {
		if sinceID != "" {
			// Already up to date. The empty write when the file is
			// missing mirrors the tool's historical behavior, even
			// though a watermark implies the file exists.
			e.logger.Info("no tweets newer than watermark")
			if !e.store.Exists() {
				if err := e.store.Save(nil); err != nil {
					return nil, err
				}
				return &Report{Added: 0, Total: 0, Wrote: true}, nil
			}
			return &Report{Added: 0, Total: len(existing), Wrote: false}, nil
		}

		// True first run (or full refresh) with nothing to show
		e.logger.Info("account has no tweets to sync")
		if err := e.store.Save(nil); err != nil {
			return nil, err
		}
		return &Report{Added: 0, Total: 0, Wrote: true}, nil
	}

	newPosts := e.filterPosts(resp, existing)

	if len(newPosts) == 0 {
		e.logger.InfoWithFields("no new posts with images", map[string]interface{}{
			"fetched": len(resp.Data),
		})
		return &Report{Added: 0, Total: len(existing), Wrote: false}, nil
	}

	// New posts go in front, then the whole sequence is re-sorted
	// newest-first. In full mode existing is empty, so the merged set
	// is exactly the fetched set.
	merged := make([]dataset.Post, 0, len(newPosts)+len(existing))
	merged = append(merged, newPosts...)
	merged = append(merged, existing...)
	dataset.SortPosts(merged)

	if err := e.store.Save(merged); err != nil {
		return nil, err
	}

	e.logger.InfoWithFields("sync completed", map[string]interface{}{
		"added": len(newPosts),
		"total": len(merged),
	})

	return &Report{Added: len(newPosts), Total: len(merged), Wrote: true}, nil
}

// filterPosts turns the API response into dataset posts: drops tweets
// already present locally, resolves media keys, keeps photo attachments
// only, and discards tweets left without a single image.
func (e *Engine) filterPosts(resp *twitter.TweetsResponse, existing []dataset.Post) []dataset.Post {
	known := dataset.IDSet(existing)
	media := resp.MediaLookup()

	var posts []dataset.Post
	for _, tweet := range resp.Data {
		// The watermark should already prevent overlap; this guards
		// against the API returning boundary tweets anyway
		if known[tweet.ID] {
			e.logger.DebugWithFields("skipping already known tweet", map[string]interface{}{
				"tweet_id": tweet.ID,
			})
			continue
		}

		var images []dataset.Image
		for _, key := range tweet.Attachments.MediaKeys {
			m, ok := media[key]
			if !ok || m.Type != twitter.MediaTypePhoto {
				continue
			}
			images = append(images, dataset.Image{
				URL:    m.URL,
				Width:  m.Width,
				Height: m.Height,
			})
		}

		if len(images) == 0 {
			e.logger.DebugWithFields("skipping tweet without photos", map[string]interface{}{
				"tweet_id": tweet.ID,
			})
			continue
		}

		posts = append(posts, dataset.Post{
			ID:        tweet.ID,
			Text:      tweet.Text,
			CreatedAt: tweet.CreatedAt,
			Metrics:   tweet.PublicMetrics,
			Images:    images,
			TweetURL:  twitter.StatusURL(e.handle, tweet.ID),
		})
	}

	return posts
}
