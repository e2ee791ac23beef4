// Package instagram implements feed.Source against the public Instagram
// web endpoints.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alanyang/insta-mosaic/internal/port/feed"
)

const (
	DefaultBaseURL = "https://www.instagram.com"
	DefaultTimeout = 30 * time.Second
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type hashtagResponse struct {
	GraphQL *struct {
		Hashtag *struct {
			Media *struct {
				Edges []struct {
					Node struct {
						Shortcode  string `json:"shortcode"`
						DisplayURL string `json:"display_url"`
					} `json:"node"`
				} `json:"edges"`
				PageInfo struct {
					EndCursor   string `json:"end_cursor"`
					HasNextPage bool   `json:"has_next_page"`
				} `json:"page_info"`
			} `json:"edge_hashtag_to_media"`
		} `json:"hashtag"`
	} `json:"graphql"`
}

type postResponse struct {
	GraphQL *struct {
		Media *struct {
			Shortcode  string `json:"shortcode"`
			DisplayURL string `json:"display_url"`
			Owner      struct {
				Username string `json:"username"`
			} `json:"owner"`
		} `json:"shortcode_media"`
	} `json:"graphql"`
}

func (c *Client) ListByHashtag(ctx context.Context, hashtag, cursor string) (feed.Page, error) {
	params := url.Values{"__a": {"1"}}
	if cursor != "" {
		params.Set("max_id", cursor)
	}

	var resp hashtagResponse
	path := "/explore/tags/" + url.PathEscape(hashtag) + "/"
	if err := c.get(ctx, path, params, &resp); err != nil {
		return feed.Page{}, err
	}
	if resp.GraphQL == nil || resp.GraphQL.Hashtag == nil || resp.GraphQL.Hashtag.Media == nil {
		return feed.Page{}, fmt.Errorf("%w: hashtag %s: missing edge_hashtag_to_media", feed.ErrRateLimited, hashtag)
	}

	media := resp.GraphQL.Hashtag.Media
	page := feed.Page{
		Refs:       make([]feed.Ref, 0, len(media.Edges)),
		NextCursor: media.PageInfo.EndCursor,
		HasMore:    media.PageInfo.HasNextPage,
	}
	for _, e := range media.Edges {
		page.Refs = append(page.Refs, feed.Ref{ID: e.Node.Shortcode, ImageURL: e.Node.DisplayURL})
	}
	return page, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (feed.Detail, error) {
	var resp postResponse
	path := "/p/" + url.PathEscape(id) + "/"
	if err := c.get(ctx, path, url.Values{"__a": {"1"}}, &resp); err != nil {
		return feed.Detail{}, err
	}
	if resp.GraphQL == nil || resp.GraphQL.Media == nil {
		return feed.Detail{}, fmt.Errorf("%w: post %s: missing shortcode_media", feed.ErrRateLimited, id)
	}

	m := resp.GraphQL.Media
	return feed.Detail{ID: m.Shortcode, Username: m.Owner.Username, ImageURL: m.DisplayURL}, nil
}

// get returns feed.ErrRateLimited for any answered request whose body is not
// the expected JSON; only failures to complete the exchange are hard errors.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", feed.ErrRateLimited, path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", feed.ErrRateLimited, path, err)
	}
	return nil
}
