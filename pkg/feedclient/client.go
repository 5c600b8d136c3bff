// Package feedclient is the Go client for the PhotoCove REST surface. It
// pairs plain request/response calls with two client-side layers: Pager
// accumulates feed pages with id-dedup, and Mirror keeps an optimistic
// local copy of a record's annotations across mutations.
package feedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/averywhitlock/photocove/internal/domain/models"
)

// Client calls the PhotoCove API. The zero value is not usable; construct
// with New. Authentication rides on the http.Client's cookie jar.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying http.Client, e.g. one with a
// cookie jar holding a session.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New returns a client for the API at baseURL (no trailing slash needed).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: trimSlash(baseURL),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Msg)
}

// Page is one page of a photo listing.
type Page struct {
	Photos  []models.Photo `json:"photos"`
	LastKey string         `json:"lastKey"`
}

// AlbumSummary is one album in the album listing.
type AlbumSummary struct {
	AlbumID    string         `json:"albumId"`
	Name       string         `json:"name"`
	UploaderID string         `json:"uploaderId"`
	CreatedAt  time.Time      `json:"createdAt"`
	TotalCount int            `json:"totalCount"`
	Preview    []models.Photo `json:"preview"`
	MorePhotos int            `json:"morePhotos"`
}

// AlbumPage is one page of the album listing.
type AlbumPage struct {
	Albums  []AlbumSummary `json:"albums"`
	LastKey string         `json:"lastKey"`
}

// Photos fetches one page of the chronological feed. lastKey is the
// opaque cursor from the previous page, empty for the first.
func (c *Client) Photos(ctx context.Context, lastKey string, limit int) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/photos"+pageQuery(lastKey, limit), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PhotosByUser fetches one page of a single uploader's photos.
func (c *Client) PhotosByUser(ctx context.Context, userID, lastKey string, limit int) (*Page, error) {
	var page Page
	path := "/photos/user/" + url.PathEscape(userID) + pageQuery(lastKey, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PhotosByAlbum fetches one page of an album's members.
func (c *Client) PhotosByAlbum(ctx context.Context, albumID, lastKey string, limit int) (*Page, error) {
	var page Page
	path := "/photos/album/" + url.PathEscape(albumID) + pageQuery(lastKey, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Albums fetches one page of album summaries.
func (c *Client) Albums(ctx context.Context, lastKey string, limit int) (*AlbumPage, error) {
	var page AlbumPage
	if err := c.do(ctx, http.MethodGet, "/photos/albums"+pageQuery(lastKey, limit), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPhoto fetches a single photo record.
func (c *Client) GetPhoto(ctx context.Context, photoID string) (*models.Photo, error) {
	var p models.Photo
	if err := c.do(ctx, http.MethodGet, "/photos/"+url.PathEscape(photoID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePhoto removes a photo (uploader or admin only).
func (c *Client) DeletePhoto(ctx context.Context, photoID string) error {
	return c.do(ctx, http.MethodDelete, "/photos/"+url.PathEscape(photoID), nil, nil)
}

// RenameAlbum renames an album; the server cascades the name to members.
func (c *Client) RenameAlbum(ctx context.Context, albumID, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, http.MethodPut, "/photos/albums/"+url.PathEscape(albumID), body, nil)
}

// DeleteAlbum deletes an empty album's metadata (admin only).
func (c *Client) DeleteAlbum(ctx context.Context, albumID string) error {
	return c.do(ctx, http.MethodDelete, "/photos/albums/"+url.PathEscape(albumID), nil, nil)
}

// Owner addresses the record an annotation call targets: a photo or an
// album.
type Owner struct {
	path string
}

// PhotoOwner targets a photo's annotations.
func PhotoOwner(photoID string) Owner {
	return Owner{path: "/photos/" + url.PathEscape(photoID)}
}

// AlbumOwner targets an album's annotations.
func AlbumOwner(albumID string) Owner {
	return Owner{path: "/photos/albums/" + url.PathEscape(albumID)}
}

// toggleResponse is the server's reply to a reaction toggle.
type toggleResponse struct {
	Reaction models.Reaction `json:"reaction"`
	Added    bool            `json:"added"`
}

// ToggleReaction toggles the caller's reaction of the given type on the
// owner record. added reports which way the toggle went.
func (c *Client) ToggleReaction(ctx context.Context, owner Owner, typ string) (models.Reaction, bool, error) {
	var resp toggleResponse
	err := c.do(ctx, http.MethodPost, owner.path+"/reactions", map[string]string{"type": typ}, &resp)
	if err != nil {
		return models.Reaction{}, false, err
	}
	return resp.Reaction, resp.Added, nil
}

// RemoveReaction removes a reaction by id (author or admin only).
func (c *Client) RemoveReaction(ctx context.Context, owner Owner, reactionID string) error {
	return c.do(ctx, http.MethodDelete, owner.path+"/reactions/"+url.PathEscape(reactionID), nil, nil)
}

// AddComment posts a comment and returns it with its server-assigned id.
func (c *Client) AddComment(ctx context.Context, owner Owner, body string) (models.Comment, error) {
	var comment models.Comment
	err := c.do(ctx, http.MethodPost, owner.path+"/comments", map[string]string{"body": body}, &comment)
	return comment, err
}

// DeleteComment removes a comment (author or admin only).
func (c *Client) DeleteComment(ctx context.Context, owner Owner, commentID string) error {
	return c.do(ctx, http.MethodDelete, owner.path+"/comments/"+url.PathEscape(commentID), nil, nil)
}

// AddTag adds a tag and returns the server-normalized form.
func (c *Client) AddTag(ctx context.Context, owner Owner, tag string) (string, error) {
	var resp struct {
		Tag string `json:"tag"`
	}
	err := c.do(ctx, http.MethodPost, owner.path+"/tags", map[string]string{"tag": tag}, &resp)
	return resp.Tag, err
}

// RemoveTag removes a tag from the owner record.
func (c *Client) RemoveTag(ctx context.Context, owner Owner, tag string) error {
	return c.do(ctx, http.MethodDelete, owner.path+"/tags/"+url.PathEscape(tag), nil, nil)
}

// do performs one JSON round trip. A non-2xx status decodes into APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Msg: errBody.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func pageQuery(lastKey string, limit int) string {
	q := url.Values{}
	if lastKey != "" {
		q.Set("lastKey", lastKey)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
