package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tweetsync/pkg/logger"
)

// Error types for Twitter API operations
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a Twitter API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("twitter %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// Client is a Twitter API v2 client authenticated with a bearer token
type Client struct {
	httpClient  *http.Client
	bearerToken string
	baseURL     string
	pageSize    int
	logger      logger.Logger
}

// NewClient creates a new Twitter API client
func NewClient(baseURL, bearerToken string, pageSize int, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if baseURL == "" {
		baseURL = BaseURL
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		bearerToken: bearerToken,
		baseURL:     baseURL,
		pageSize:    pageSize,
		logger:      log,
	}
}

// doRequest performs an HTTP request with bearer authentication
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeAuth,
			Message: "authentication failed, check the bearer token",
			Code:    resp.StatusCode,
		}
	case http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeRateLimit,
			Message: "rate limit exceeded",
			Code:    resp.StatusCode,
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	default:
		if resp.StatusCode >= 400 {
			c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
				"status": resp.StatusCode,
				"url":    resp.Request.URL.String(),
			})
			return &Error{
				Type:    ErrorTypeUnknown,
				Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
				Code:    resp.StatusCode,
			}
		}
		return nil
	}
}

// ResolveUserID resolves an account handle to its internal user ID
func (c *Client) ResolveUserID(ctx context.Context, handle string) (string, error) {
	url := UserLookupURL(c.baseURL, handle)

	c.logger.DebugWithFields("resolving user ID", map[string]interface{}{
		"handle": handle,
		"url":    url,
	})

	var response UserLookupResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		c.logger.ErrorWithFields("failed to resolve user ID", map[string]interface{}{
			"handle": handle,
			"error":  err.Error(),
		})
		return "", err
	}

	if response.Data.ID == "" {
		detail := "user lookup returned no ID"
		if len(response.Errors) > 0 {
			detail = response.Errors[0].Detail
		}
		return "", &Error{
			Type:    ErrorTypeParsing,
			Message: detail,
			Code:    http.StatusOK,
		}
	}

	c.logger.DebugWithFields("resolved user ID", map[string]interface{}{
		"handle":  handle,
		"user_id": response.Data.ID,
	})

	return response.Data.ID, nil
}

// FetchTweets fetches one page of an account's recent tweets, excluding
// retweets and replies, with photo media side-loaded. sinceID may be
// empty to fetch without a lower bound.
func (c *Client) FetchTweets(ctx context.Context, userID, sinceID string) (*TweetsResponse, error) {
	url := UserTweetsURL(c.baseURL, userID, c.pageSize, sinceID)

	c.logger.DebugWithFields("fetching tweets", map[string]interface{}{
		"user_id":  userID,
		"since_id": sinceID,
		"url":      url,
	})

	var response TweetsResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		c.logger.ErrorWithFields("failed to fetch tweets", map[string]interface{}{
			"user_id":  userID,
			"since_id": sinceID,
			"error":    err.Error(),
		})
		return nil, err
	}

	c.logger.DebugWithFields("tweets fetched", map[string]interface{}{
		"user_id":      userID,
		"result_count": response.Meta.ResultCount,
	})

	return &response, nil
}
