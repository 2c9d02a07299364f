package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cadence/internal/logging"
	"cadence/internal/meta"
	"cadence/internal/services"
)

const (
	defaultBaseURL     = "https://musicbrainz.org/ws/2"
	defaultUserAgent   = "cadence/dev (https://github.com/cadence-audio/cadence)"
	defaultHTTPTimeout = 30 * time.Second

	// The public MusicBrainz service allows one request per second per
	// client. Private mirrors may lift this via Config.RequestsPerSecond.
	defaultRequestsPerSecond = 1.0

	searchLimit  = 25
	maxRetries   = 3
	maxRetryWait = 30 * time.Second
)

// releaseIncludes asks for everything the matcher scores in one lookup.
const releaseIncludes = "recordings+artist-credits+labels+release-groups"

// Config describes the MusicBrainz client configuration.
type Config struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// Client wraps the MusicBrainz JSON web service.
type Client struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "musicbrainz", "parse base url", base, err)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		logger:    logging.NewComponentLogger(cfg.Logger, "musicbrainz"),
	}, nil
}

// SearchReleases queries the release index and returns candidate stubs
// ordered by the service's own relevance score. Stubs carry header fields
// only; LookupRelease fetches the tracklist.
func (c *Client) SearchReleases(ctx context.Context, query ReleaseQuery) ([]ReleaseStub, error) {
	lucene := query.lucene()
	if lucene == "" {
		return nil, services.InputField("musicbrainz", "query", query, "no searchable fields")
	}
	params := url.Values{}
	params.Set("query", lucene)
	params.Set("limit", strconv.Itoa(searchLimit))

	var payload releaseSearchResponse
	if err := c.get(ctx, "release", params, &payload); err != nil {
		return nil, err
	}
	stubs := make([]ReleaseStub, 0, len(payload.Releases))
	for _, rel := range payload.Releases {
		stubs = append(stubs, rel.stub())
	}
	c.logger.Debug("release search",
		logging.String("query", lucene),
		logging.Int("results", len(stubs)))
	return stubs, nil
}

// LookupRelease fetches one release with its full tracklist and converts it
// to the matcher's representation.
func (c *Client) LookupRelease(ctx context.Context, id string) (meta.Release, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return meta.Release{}, services.InputField("musicbrainz", "release_id", id, "must not be empty")
	}
	params := url.Values{}
	params.Set("inc", releaseIncludes)

	var payload wireRelease
	if err := c.get(ctx, "release/"+url.PathEscape(id), params, &payload); err != nil {
		return meta.Release{}, err
	}
	return payload.toRelease(), nil
}

// SearchRecordings queries the recording index for singleton track matching.
func (c *Client) SearchRecordings(ctx context.Context, query RecordingQuery) ([]meta.Track, error) {
	lucene := query.lucene()
	if lucene == "" {
		return nil, services.InputField("musicbrainz", "query", query, "no searchable fields")
	}
	params := url.Values{}
	params.Set("query", lucene)
	params.Set("limit", strconv.Itoa(searchLimit))

	var payload recordingSearchResponse
	if err := c.get(ctx, "recording", params, &payload); err != nil {
		return nil, err
	}
	tracks := make([]meta.Track, 0, len(payload.Recordings))
	for _, rec := range payload.Recordings {
		tracks = append(tracks, rec.toTrack())
	}
	return tracks, nil
}

// LookupRecording fetches one recording by ID.
func (c *Client) LookupRecording(ctx context.Context, id string) (meta.Track, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return meta.Track{}, services.InputField("musicbrainz", "recording_id", id, "must not be empty")
	}
	params := url.Values{}
	params.Set("inc", "artist-credits")

	var payload wireRecording
	if err := c.get(ctx, "recording/"+url.PathEscape(id), params, &payload); err != nil {
		return meta.Track{}, err
	}
	return payload.toTrack(), nil
}

// get performs one rate-limited JSON request with bounded retries on
// transient failures, honoring Retry-After when present.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	params.Set("fmt", "json")
	endpoint.RawQuery = params.Encode()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return services.Wrap(services.ErrTimeout, "musicbrainz", "rate limit wait", path, err)
		}
		retryAfter, err := c.doOnce(ctx, endpoint.String(), out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !services.IsTransient(err) || attempt == maxRetries {
			return err
		}
		wait := retryAfter
		if wait <= 0 {
			wait = time.Second << attempt
		}
		if wait > maxRetryWait {
			wait = maxRetryWait
		}
		c.logger.Warn("retrying request",
			logging.String("path", path),
			logging.Int("attempt", attempt+1),
			logging.Duration("wait", wait),
			logging.Error(err))
		select {
		case <-ctx.Done():
			return services.Wrap(services.ErrTimeout, "musicbrainz", "request", path, ctx.Err())
		case <-time.After(wait):
		}
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, endpoint string, out any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, services.Wrap(services.ErrInput, "musicbrainz", "build request", endpoint, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, services.Wrap(services.ErrTimeout, "musicbrainz", "request", endpoint, ctx.Err())
		}
		return 0, services.Wrap(services.ErrTransient, "musicbrainz", "request", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, services.Wrap(services.ErrNotFound, "musicbrainz", "request", endpoint, nil)
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests:
		return parseRetryAfter(resp.Header.Get("Retry-After")),
			services.Wrap(services.ErrTransient, "musicbrainz", "request",
				fmt.Sprintf("service throttled (%s)", resp.Status), nil)
	case resp.StatusCode >= 500:
		return 0, services.Wrap(services.ErrTransient, "musicbrainz", "request",
			fmt.Sprintf("server error (%s)", resp.Status), nil)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, services.Wrap(services.ErrInput, "musicbrainz", "request",
			fmt.Sprintf("rejected (%s): %s", resp.Status, strings.TrimSpace(string(body))), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0, services.Wrap(services.ErrTransient, "musicbrainz", "decode response", endpoint, err)
	}
	return 0, nil
}

func parseRetryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(header, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	if when, err := http.ParseTime(header); err == nil {
		if d := time.Until(when); d > 0 {
			return d
		}
	}
	return 0
}
