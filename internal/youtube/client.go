package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
)

const (
	defaultAPIBaseURL    = "https://www.googleapis.com/youtube/v3"
	defaultUploadBaseURL = "https://www.googleapis.com/upload/youtube/v3"

	authURL  = "https://accounts.google.com/o/oauth2/auth"
	tokenURL = "https://oauth2.googleapis.com/token"

	watchURLPrefix = "https://www.youtube.com/watch?v="
)

// Scopes required for upload and channel management.
var scopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube",
	"https://www.googleapis.com/auth/youtube.readonly",
}

// Tokens OAuth credentials, passed in per call; the client keeps no
// state between calls.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// UploadMetadata describes the video being uploaded.
type UploadMetadata struct {
	Title         string
	Description   string
	Tags          []string
	CategoryID    string
	PrivacyStatus string
}

// UploadResult identifies the uploaded video on the host.
type UploadResult struct {
	ExternalID string
	URL        string
}

// Playlist a playlist record on the host.
type Playlist struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ItemCount   int    `json:"itemCount"`
}

// Client wraps the YouTube Data API v3. Base URLs are injectable for
// tests; production code uses the defaults.
type Client struct {
	oauthConfig *oauth2.Config
	apiKey      string

	apiBaseURL    string
	uploadBaseURL string
	httpClient    *http.Client
}

// NewClient creates a host client.
func NewClient(clientID, clientSecret, apiKey, redirectURL string) *Client {
	return &Client{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		apiKey:        apiKey,
		apiBaseURL:    defaultAPIBaseURL,
		uploadBaseURL: defaultUploadBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURLs overrides the host endpoints. Used in tests.
func (c *Client) SetBaseURLs(apiBaseURL, uploadBaseURL string) {
	c.apiBaseURL = apiBaseURL
	c.uploadBaseURL = uploadBaseURL
}

// AuthURL builds the OAuth consent URL. Never fails locally.
func (c *Client) AuthURL(state string) string {
	if state == "" {
		state = "youtube_auth"
	}
	return c.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// ExchangeCode trades an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Tokens, error) {
	tok, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, &AuthExchangeError{Err: err}
	}
	return &Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}

// RefreshAccessToken obtains a fresh access token from a refresh token.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*Tokens, error) {
	src := c.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, &AuthExchangeError{Err: err}
	}
	return &Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: refreshToken,
		Expiry:       tok.Expiry,
	}, nil
}

// searchResponse is the subset of the search endpoint response we read.
type searchResponse struct {
	Items []struct {
		ID struct {
			Kind      string `json:"kind"`
			VideoID   string `json:"videoId"`
			ChannelID string `json:"channelId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ChannelID   string `json:"channelId"`
			PublishedAt string `json:"publishedAt"`
			CustomURL   string `json:"customUrl"`
			Thumbnails  struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// ListChannelVideos lists the public videos of a channel, newest first.
// A transport or API failure is returned as an error, never as an empty
// list, so callers can tell "no videos" and "call failed" apart.
func (c *Client) ListChannelVideos(ctx context.Context, channelID string, maxResults int) ([]entities.RemoteVideo, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("maxResults", strconv.Itoa(maxResults))

	var result searchResponse
	if err := c.getJSON(ctx, "search", c.apiBaseURL+"/search?"+params.Encode(), "", &result); err != nil {
		return nil, err
	}

	videos := make([]entities.RemoteVideo, 0, len(result.Items))
	for _, item := range result.Items {
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		videos = append(videos, entities.RemoteVideo{
			ExternalID:   item.ID.VideoID,
			Title:        item.Snippet.Title,
			PublishedAt:  publishedAt,
			ThumbnailURL: item.Snippet.Thumbnails.High.URL,
		})
	}
	return videos, nil
}

// channelListResponse is the subset of the channels endpoint we read.
type channelListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			CustomURL   string `json:"customUrl"`
			Description string `json:"description"`
		} `json:"snippet"`
	} `json:"items"`
}

// GetChannel fetches the public profile of a channel by id.
func (c *Client) GetChannel(ctx context.Context, channelID string) (*entities.ChannelInfo, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("part", "snippet")
	params.Set("id", channelID)

	var result channelListResponse
	if err := c.getJSON(ctx, "channels.list", c.apiBaseURL+"/channels?"+params.Encode(), "", &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	item := result.Items[0]
	return &entities.ChannelInfo{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		CustomURL:   item.Snippet.CustomURL,
		Description: item.Snippet.Description,
	}, nil
}

// SearchChannelByHandle resolves an "@handle" via the search endpoint,
// taking the first hit.
func (c *Client) SearchChannelByHandle(ctx context.Context, handle string) (*entities.ChannelInfo, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("part", "snippet")
	params.Set("q", handle)
	params.Set("type", "channel")
	params.Set("maxResults", "1")

	var result searchResponse
	if err := c.getJSON(ctx, "search", c.apiBaseURL+"/search?"+params.Encode(), "", &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	item := result.Items[0]
	channelID := item.ID.ChannelID
	if channelID == "" {
		channelID = item.Snippet.ChannelID
	}
	return &entities.ChannelInfo{
		ID:        channelID,
		Title:     item.Snippet.Title,
		CustomURL: item.Snippet.CustomURL,
	}, nil
}

// videoListResponse is the subset of the videos endpoint we read.
type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		Status struct {
			PrivacyStatus string `json:"privacyStatus"`
		} `json:"status"`
	} `json:"items"`
}

// GetVideoInfo fetches a single hosted video, or nil when it no longer
// exists on the host.
func (c *Client) GetVideoInfo(ctx context.Context, videoID string) (*entities.RemoteVideo, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("part", "snippet,status")
	params.Set("id", videoID)

	var result videoListResponse
	if err := c.getJSON(ctx, "videos.list", c.apiBaseURL+"/videos?"+params.Encode(), "", &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	item := result.Items[0]
	publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
	return &entities.RemoteVideo{
		ExternalID:  item.ID,
		Title:       item.Snippet.Title,
		PublishedAt: publishedAt,
	}, nil
}

// uploadRequestBody is the snippet/status document sent with an upload.
type uploadRequestBody struct {
	Snippet struct {
		Title                string   `json:"title"`
		Description          string   `json:"description"`
		Tags                 []string `json:"tags,omitempty"`
		CategoryID           string   `json:"categoryId"`
		DefaultLanguage      string   `json:"defaultLanguage"`
		DefaultAudioLanguage string   `json:"defaultAudioLanguage"`
	} `json:"snippet"`
	Status struct {
		PrivacyStatus       string `json:"privacyStatus"`
		Embeddable          bool   `json:"embeddable"`
		License             string `json:"license"`
		PublicStatsViewable bool   `json:"publicStatsViewable"`
	} `json:"status"`
}

// UploadVideo pushes a staged local file to the host. Failure causes are
// distinguishable: expired token, quota, invalid payload.
func (c *Client) UploadVideo(ctx context.Context, localPath string, meta UploadMetadata, tokens *Tokens) (*UploadResult, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, &UploadError{Reason: ErrInvalidUpload, Detail: fmt.Sprintf("opening staged file: %v", err)}
	}
	defer file.Close()

	if meta.CategoryID == "" {
		meta.CategoryID = "22" // People & Blogs
	}
	if meta.PrivacyStatus == "" {
		meta.PrivacyStatus = "unlisted"
	}

	var body uploadRequestBody
	body.Snippet.Title = meta.Title
	body.Snippet.Description = meta.Description
	body.Snippet.Tags = meta.Tags
	body.Snippet.CategoryID = meta.CategoryID
	body.Snippet.DefaultLanguage = "pt"
	body.Snippet.DefaultAudioLanguage = "pt"
	body.Status.PrivacyStatus = meta.PrivacyStatus
	body.Status.Embeddable = true
	body.Status.License = "youtube"
	body.Status.PublicStatsViewable = false

	metaJSON, err := json.Marshal(body)
	if err != nil {
		return nil, &UploadError{Reason: ErrInvalidUpload, Detail: err.Error()}
	}

	// multipart/related body: metadata part then media part.
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, &UploadError{Reason: ErrInvalidUpload, Detail: err.Error()}
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return nil, &UploadError{Reason: ErrInvalidUpload, Detail: err.Error()}
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", "video/*")
	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return nil, &UploadError{Reason: ErrInvalidUpload, Detail: err.Error()}
	}
	if _, err := io.Copy(mediaPart, file); err != nil {
		return nil, &UploadError{Reason: ErrInvalidUpload, Detail: fmt.Sprintf("reading staged file: %v", err)}
	}
	if err := writer.Close(); err != nil {
		return nil, &UploadError{Reason: ErrInvalidUpload, Detail: err.Error()}
	}

	endpoint := c.uploadBaseURL + "/videos?uploadType=multipart&part=snippet,status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, &UploadError{Reason: ErrInvalidUpload, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UploadError{Reason: fmt.Errorf("sending upload: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := readBody(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, &UploadError{Reason: ErrTokenExpired, Detail: detail}
		case http.StatusForbidden:
			return nil, &UploadError{Reason: ErrQuotaExceeded, Detail: detail}
		case http.StatusBadRequest:
			return nil, &UploadError{Reason: ErrInvalidUpload, Detail: detail}
		default:
			return nil, &UploadError{Reason: fmt.Errorf("status %d", resp.StatusCode), Detail: detail}
		}
	}

	var uploaded struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, &UploadError{Reason: fmt.Errorf("decoding upload response: %w", err)}
	}
	if uploaded.ID == "" {
		return nil, &UploadError{Reason: fmt.Errorf("upload response missing video id")}
	}

	return &UploadResult{
		ExternalID: uploaded.ID,
		URL:        watchURLPrefix + uploaded.ID,
	}, nil
}

// CreatePlaylist creates a playlist on the authenticated channel.
func (c *Client) CreatePlaylist(ctx context.Context, title, description, privacyStatus string, tokens *Tokens) (*Playlist, error) {
	if privacyStatus == "" {
		privacyStatus = "public"
	}

	payload := map[string]interface{}{
		"snippet": map[string]interface{}{
			"title":           title,
			"description":     description,
			"defaultLanguage": "pt",
		},
		"status": map[string]string{"privacyStatus": privacyStatus},
	}

	var created struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"snippet"`
	}
	endpoint := c.apiBaseURL + "/playlists?part=snippet,status"
	if err := c.postJSON(ctx, "playlists.insert", endpoint, tokens.AccessToken, payload, &created); err != nil {
		return nil, err
	}

	return &Playlist{
		ID:          created.ID,
		Title:       created.Snippet.Title,
		Description: created.Snippet.Description,
	}, nil
}

// ListPlaylists lists the authenticated channel's playlists.
func (c *Client) ListPlaylists(ctx context.Context, tokens *Tokens) ([]Playlist, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("mine", "true")
	params.Set("maxResults", "50")

	var result struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"snippet"`
			ContentDetails struct {
				ItemCount int `json:"itemCount"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	endpoint := c.apiBaseURL + "/playlists?" + params.Encode()
	if err := c.getJSON(ctx, "playlists.list", endpoint, tokens.AccessToken, &result); err != nil {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(result.Items))
	for _, item := range result.Items {
		playlists = append(playlists, Playlist{
			ID:          item.ID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			ItemCount:   item.ContentDetails.ItemCount,
		})
	}
	return playlists, nil
}

// AddVideoToPlaylist appends a hosted video to a playlist and returns
// the playlist item id (needed for removal).
func (c *Client) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string, tokens *Tokens) (string, error) {
	payload := map[string]interface{}{
		"snippet": map[string]interface{}{
			"playlistId": playlistID,
			"resourceId": map[string]string{
				"kind":    "youtube#video",
				"videoId": videoID,
			},
		},
	}

	var created struct {
		ID string `json:"id"`
	}
	endpoint := c.apiBaseURL + "/playlistItems?part=snippet"
	if err := c.postJSON(ctx, "playlistItems.insert", endpoint, tokens.AccessToken, payload, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// RemoveVideoFromPlaylist deletes a playlist item.
func (c *Client) RemoveVideoFromPlaylist(ctx context.Context, playlistItemID string, tokens *Tokens) error {
	endpoint := c.apiBaseURL + "/playlistItems?id=" + url.QueryEscape(playlistItemID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube: playlistItems.delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HostAPIError{Operation: "playlistItems.delete", StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, operation, endpoint, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HostAPIError{Operation: operation, StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("youtube: decoding %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, operation, endpoint, accessToken string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HostAPIError{Operation: operation, StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("youtube: decoding %s response: %w", operation, err)
		}
	}
	return nil
}

func readBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	return string(data)
}
