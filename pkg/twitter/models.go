package twitter

import "encoding/json"

// MediaTypePhoto is the media type kept by the sync engine; every
// other type (video, animated_gif) is discarded.
const MediaTypePhoto = "photo"

// UserLookupResponse is the response of the lookup-by-username endpoint
type UserLookupResponse struct {
	Data   User       `json:"data"`
	Errors []APIError `json:"errors,omitempty"`
}

// User represents a Twitter account in a lookup response
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// TweetsResponse is the response of the user-tweets timeline endpoint
type TweetsResponse struct {
	Data     []Tweet    `json:"data"`
	Includes Includes   `json:"includes"`
	Meta     Meta       `json:"meta"`
	Errors   []APIError `json:"errors,omitempty"`
}

// Tweet represents a single tweet in a timeline response
type Tweet struct {
	ID            string          `json:"id"`
	Text          string          `json:"text"`
	CreatedAt     string          `json:"created_at"`
	PublicMetrics json.RawMessage `json:"public_metrics,omitempty"`
	Attachments   Attachments     `json:"attachments"`
}

// Attachments holds the media key references of a tweet
type Attachments struct {
	MediaKeys []string `json:"media_keys"`
}

// Includes holds the side-loaded objects of a timeline response
type Includes struct {
	Media []Media `json:"media"`
}

// Media represents a side-loaded media object, keyed by media key
type Media struct {
	MediaKey string `json:"media_key"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Meta holds timeline response metadata
type Meta struct {
	ResultCount int    `json:"result_count"`
	NewestID    string `json:"newest_id,omitempty"`
	OldestID    string `json:"oldest_id,omitempty"`
	NextToken   string `json:"next_token,omitempty"`
}

// APIError is a partial error entry in an otherwise-200 response body
type APIError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// MediaLookup builds a media-key to media-object map from the
// side-loaded media list
func (r *TweetsResponse) MediaLookup() map[string]Media {
	lookup := make(map[string]Media, len(r.Includes.Media))
	for _, m := range r.Includes.Media {
		lookup[m.MediaKey] = m
	}
	return lookup
}
