package sync

import (
	"context"

	"tweetsync/pkg/twitter"
)

// AccountResolver resolves an account handle to its internal user ID
type AccountResolver interface {
	ResolveUserID(ctx context.Context, handle string) (string, error)
}

// TweetFetcher fetches one page of an account's recent tweets
type TweetFetcher interface {
	FetchTweets(ctx context.Context, userID, sinceID string) (*twitter.TweetsResponse, error)
}
