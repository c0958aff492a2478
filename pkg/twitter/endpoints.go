package twitter

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// BaseURL is the base URL for the Twitter API v2
	BaseURL = "https://api.twitter.com"

	// UserLookupEndpoint is the endpoint pattern for lookup-by-username
	UserLookupEndpoint = "/2/users/by/username/%s"

	// UserTweetsEndpoint is the endpoint pattern for an account's tweets
	UserTweetsEndpoint = "/2/users/%s/tweets"

	// MaxPageSize is the largest page the timeline endpoint accepts
	MaxPageSize = 100

	// tweetFields, mediaFields and expansions select everything the
	// sync engine needs: creation time, engagement metrics, and the
	// side-loaded photo objects with their dimensions
	tweetFields = "id,text,created_at,public_metrics,attachments"
	mediaFields = "media_key,type,url,width,height"
	expansions  = "attachments.media_keys"

	// excluded keeps retweets and replies out of the timeline
	excluded = "retweets,replies"
)

// UserLookupURL constructs the URL for resolving a handle to a user ID
func UserLookupURL(baseURL, handle string) string {
	return baseURL + fmt.Sprintf(UserLookupEndpoint, url.PathEscape(handle))
}

// UserTweetsURL constructs the URL for fetching one page of an account's
// tweets. sinceID is optional; when non-empty only tweets newer than it
// are returned.
func UserTweetsURL(baseURL, userID string, pageSize int, sinceID string) string {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	params := url.Values{}
	params.Set("max_results", strconv.Itoa(pageSize))
	params.Set("exclude", excluded)
	params.Set("expansions", expansions)
	params.Set("tweet.fields", tweetFields)
	params.Set("media.fields", mediaFields)
	if sinceID != "" {
		params.Set("since_id", sinceID)
	}

	return baseURL + fmt.Sprintf(UserTweetsEndpoint, url.PathEscape(userID)) + "?" + params.Encode()
}

// StatusURL constructs the public deep link for a tweet
func StatusURL(handle, tweetID string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", handle, tweetID)
}
