package netease

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/XiaoMengXinX/Music163Api-Go/api"
	"github.com/XiaoMengXinX/Music163Api-Go/utils"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"

	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus"
)

// Client provides resilient NetEase catalog calls: bounded retries with
// exponential backoff and a circuit breaker so a flapping API does not turn a
// crawl into a hammering loop. It implements corpus.Catalog.
type Client struct {
	baseData   utils.RequestData
	retry      *retryablehttp.Client
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	minBackoff time.Duration
	maxBackoff time.Duration
	logger     corpus.Logger
}

// New creates a NetEase client. musicU is the optional MUSIC_U session
// cookie; anonymous access works for search and lyrics but is rate limited
// more aggressively.
func New(musicU string, logger corpus.Logger) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil

	settings := gobreaker.Settings{
		Name:        "netease-api",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	data := utils.RequestData{}
	if musicU != "" {
		data.Cookies = []*http.Cookie{{Name: "MUSIC_U", Value: musicU}}
		if logger != nil {
			logger.Info("netease client initialized with MUSIC_U cookie")
		}
	}

	return &Client{
		baseData:   data,
		retry:      client,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		maxRetries: client.RetryMax,
		minBackoff: client.RetryWaitMin,
		maxBackoff: client.RetryWaitMax,
		logger:     logger,
	}
}

// Search returns one page of track descriptors for the query. Pages are
// zero-based; the catalog is addressed by offset = page * pageSize.
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) ([]corpus.TrackDescriptor, error) {
	if pageSize <= 0 {
		pageSize = 30
	}
	offset := page * pageSize
	if c.logger != nil {
		c.logger.Debug("searching catalog", "query", query, "page", page, "offset", offset)
	}

	var tracks []corpus.TrackDescriptor
	err := c.execute(ctx, func() error {
		result, err := api.SearchSong(c.baseData, api.SearchSongConfig{
			Keyword: query,
			Limit:   pageSize,
			Offset:  offset,
		})
		if err != nil {
			return err
		}

		tracks = make([]corpus.TrackDescriptor, 0, len(result.Result.Songs))
		for _, song := range result.Result.Songs {
			artists := make([]string, 0, len(song.Artists))
			for _, artist := range song.Artists {
				artists = append(artists, artist.Name)
			}
			tracks = append(tracks, corpus.TrackDescriptor{
				ID:      strconv.Itoa(song.Id),
				Title:   song.Name,
				Artists: artists,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("netease: search %q page %d: %w", query, page, err)
	}
	return tracks, nil
}

// GetLyrics returns the raw LRC text for a track. An instrumental or
// lyric-less track comes back as the catalog's sentinel text or an empty
// string; classification is the cleaner's job, not the client's.
func (c *Client) GetLyrics(ctx context.Context, trackID string) (string, error) {
	musicID, err := strconv.Atoi(trackID)
	if err != nil {
		return "", fmt.Errorf("netease: invalid track id %q", trackID)
	}

	var lyric string
	err = c.execute(ctx, func() error {
		data, err := api.GetSongLyric(c.baseData, musicID)
		if err != nil {
			return err
		}
		lyric = data.Lrc.Lyric
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("netease: get lyrics for %s: %w", trackID, err)
	}
	return lyric, nil
}

func (c *Client) execute(ctx context.Context, fn func() error) error {
	if fn == nil {
		return nil
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.withRetry(ctx, fn)
	})
	return err
}

func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == c.maxRetries {
			break
		}

		wait := c.retry.Backoff(c.minBackoff, c.maxBackoff, attempt, nil)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	if lastErr == nil {
		lastErr = errors.New("netease: retry failed")
	}
	return lastErr
}
