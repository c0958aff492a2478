package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"tweetsync/pkg/twitter"
)

// MockTwitterServer mimics the two Twitter API v2 endpoints the tool uses
type MockTwitterServer struct {
	server *httptest.Server

	mu          sync.Mutex
	userID      string
	tweets      []twitter.Tweet
	media       []twitter.Media
	failLookup  int // HTTP status to return from lookup, 0 for success
	failTweets  int // HTTP status to return from timeline, 0 for success
	lastSinceID string
	lookupCalls int
	tweetCalls  int
}

// NewMockTwitterServer creates and starts a mock API server
func NewMockTwitterServer() *MockTwitterServer {
	m := &MockTwitterServer{userID: "987654321"}

	mux := http.NewServeMux()
	mux.HandleFunc("/2/users/by/username/", m.handleLookup)
	mux.HandleFunc("/2/users/987654321/tweets", m.handleTweets)
	m.server = httptest.NewServer(mux)

	return m
}

func (m *MockTwitterServer) handleLookup(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupCalls++

	if m.failLookup != 0 {
		w.WriteHeader(m.failLookup)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(twitter.UserLookupResponse{
		Data: twitter.User{ID: m.userID, Name: "Test Account", Username: "testaccount"},
	})
}

func (m *MockTwitterServer) handleTweets(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tweetCalls++
	m.lastSinceID = r.URL.Query().Get("since_id")

	if m.failTweets != 0 {
		w.WriteHeader(m.failTweets)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(twitter.TweetsResponse{
		Data:     m.tweets,
		Includes: twitter.Includes{Media: m.media},
		Meta:     twitter.Meta{ResultCount: len(m.tweets)},
	})
}

// URL returns the base URL of the mock server
func (m *MockTwitterServer) URL() string {
	return m.server.URL
}

// Close shuts the server down
func (m *MockTwitterServer) Close() {
	m.server.Close()
}

// SetTimeline replaces the tweets and media the timeline endpoint returns
func (m *MockTwitterServer) SetTimeline(tweets []twitter.Tweet, media []twitter.Media) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tweets = tweets
	m.media = media
}

// FailLookup makes the lookup endpoint return the given status
func (m *MockTwitterServer) FailLookup(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLookup = status
}

// LastSinceID returns the since_id of the most recent timeline request
func (m *MockTwitterServer) LastSinceID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSinceID
}

// Calls returns how many lookup and timeline requests were served
func (m *MockTwitterServer) Calls() (lookup, tweets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookupCalls, m.tweetCalls
}
