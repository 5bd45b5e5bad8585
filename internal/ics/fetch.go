package ics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/peterbourgon/diskv/v3"

	appLog "creatorflow/internal/log"
)

// Feed is a single ICS subscription.
type Feed struct {
	// ID prefixes the ids of imported events.
	ID  string
	URL string
}

// FetchResult contains the outcome of fetching a single feed.
type FetchResult struct {
	Feed      Feed
	Body      []byte
	FromCache bool // body came from the disk cache (304 or fallback)
}

// cacheMeta holds HTTP validators for one feed URL.
type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher downloads feeds with conditional requests and keeps the last good
// body in a diskv store.
type Fetcher struct {
	client *http.Client
	cache  *diskv.Diskv
}

// NewFetcher stores cached feeds under cacheDir.
func NewFetcher(cacheDir string) *Fetcher {
	if cacheDir == "" {
		cacheDir = "./cache"
	}
	return &Fetcher{
		client: &http.Client{Timeout: 15 * time.Second},
		cache: diskv.New(diskv.Options{
			BasePath:          cacheDir,
			AdvancedTransform: shardKey,
			InverseTransform:  unshardKey,
			CacheSizeMax:      4 << 20,
			PathPerm:          0o700,
			FilePerm:          0o600,
		}),
	}
}

// WithClient replaces the HTTP client.
func (f *Fetcher) WithClient(c *http.Client) *Fetcher {
	f.client = c
	return f
}

func shardKey(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{"ics", key[:2]}, FileName: key}
}

func unshardKey(pk *diskv.PathKey) string { return pk.FileName }

// FetchAll fetches every feed. Failed feeds are logged and reported in errs;
// results only holds feeds that produced a body.
func (f *Fetcher) FetchAll(ctx context.Context, feeds []Feed) ([]FetchResult, []error) {
	results := make([]FetchResult, 0, len(feeds))
	var errs []error

	for _, feed := range feeds {
		res, err := f.FetchOne(ctx, feed)
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", feed.ID, err))
			appLog.Error("ics fetch failed", err, "id", feed.ID, "url", redactURL(feed.URL))
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// FetchOne fetches a single feed, honoring ETag and Last-Modified. On a
// network error or a non-OK status the cached body is served if there is one.
func (f *Fetcher) FetchOne(ctx context.Context, feed Feed) (FetchResult, error) {
	if feed.URL == "" {
		return FetchResult{}, errors.New("feed URL is empty")
	}

	key := cacheKey(feed.URL)
	meta := f.loadMeta(key)
	cached, _ := f.cache.Read(key + ".ics")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return FetchResult{}, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	appLog.Debug("ics fetch start", "id", feed.ID, "url", redactURL(feed.URL))

	resp, err := f.client.Do(req)
	if err != nil {
		if len(cached) > 0 {
			appLog.Error("ics fetch network error, using cached body", err, "id", feed.ID, "url", redactURL(feed.URL))
			return FetchResult{Feed: feed, Body: cached, FromCache: true}, nil
		}
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return FetchResult{}, err
		}
		meta = cacheMeta{
			URL:          feed.URL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := f.save(key, meta, body); err != nil {
			appLog.Error("ics cache save failed", err, "id", feed.ID, "url", redactURL(feed.URL))
		}
		appLog.Info("ics fetch success", "id", feed.ID, "url", redactURL(feed.URL), "bytes", len(body))
		return FetchResult{Feed: feed, Body: body}, nil

	case http.StatusNotModified:
		if len(cached) == 0 {
			return FetchResult{}, errors.New("received 304 Not Modified but no cached body available")
		}
		appLog.Debug("ics fetch not modified; using cache", "id", feed.ID, "url", redactURL(feed.URL))
		return FetchResult{Feed: feed, Body: cached, FromCache: true}, nil

	default:
		if len(cached) > 0 {
			appLog.Error("ics fetch non-OK, using cached body", errors.New(resp.Status), "id", feed.ID, "url", redactURL(feed.URL))
			return FetchResult{Feed: feed, Body: cached, FromCache: true}, nil
		}
		return FetchResult{}, errors.New(resp.Status)
	}
}

func cacheKey(u string) string {
	sum := sha256.Sum256([]byte(u))
	return hex.EncodeToString(sum[:8])
}

func (f *Fetcher) loadMeta(key string) cacheMeta {
	var meta cacheMeta
	data, err := f.cache.Read(key + ".meta")
	if err != nil {
		return meta
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}
	}
	return meta
}

// save writes the body before the metadata so validators never outlive it.
func (f *Fetcher) save(key string, meta cacheMeta, body []byte) error {
	if err := f.cache.Write(key+".ics", body); err != nil {
		return err
	}
	data, err := json.Marshal(&meta)
	if err != nil {
		return err
	}
	return f.cache.Write(key+".meta", data)
}

// redactURL keeps only scheme and host; feed paths often embed secrets.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "ics://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
