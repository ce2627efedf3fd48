package feed

import (
	"math/rand"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"newstrack/internal/logger"
)

const (
	maxFetchRetries = 3
	fetchRetryDelay = 5 * time.Second
	fetchTimeout    = 15 * time.Second

	preDelayMinMS = 1000
	preDelayMaxMS = 3000
)

// Browser user agents rotated per attempt to lower the chance of being
// rate-limited or blocked by Cloudflare-fronted feeds.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// Fetcher retrieves raw RSS bodies. Failure is silent at this layer: after
// the retry budget is exhausted Fetch returns "" and the caller treats the
// batch as empty.
type Fetcher struct {
	client *resty.Client

	// sleep is swapped out in tests to avoid real delays.
	sleep func(time.Duration)
}

func NewFetcher() *Fetcher {
	client := resty.New()
	client.SetTimeout(fetchTimeout)

	return &Fetcher{
		client: client,
		sleep:  time.Sleep,
	}
}

// Fetch GETs the feed URL with browser-like headers, up to maxFetchRetries
// attempts with a fixed backoff. A non-200 status or a body that does not
// look like RSS XML counts as a failed attempt.
func (f *Fetcher) Fetch(feedURL string) string {
	for attempt := 0; attempt < maxFetchRetries; attempt++ {
		// Randomized pre-request delay so the client does not look like a bot.
		f.sleep(time.Duration(preDelayMinMS+rand.Intn(preDelayMaxMS-preDelayMinMS)) * time.Millisecond)

		resp, err := f.client.R().
			SetHeader("User-Agent", randomUserAgent()).
			SetHeader("Accept", "application/rss+xml, application/xml; q=0.9, */*; q=0.8").
			SetHeader("Accept-Language", "en-US,en;q=0.5").
			SetHeader("Connection", "keep-alive").
			SetHeader("Referer", "https://www.google.com/").
			SetHeader("DNT", "1").
			Get(feedURL)
		if err != nil {
			logger.Log.Warnf("feed: request failed (attempt %d/%d): %v", attempt+1, maxFetchRetries, err)
			if attempt < maxFetchRetries-1 {
				f.sleep(fetchRetryDelay)
			}
			continue
		}

		if resp.StatusCode() != 200 {
			logger.Log.Warnf("feed: HTTP %d from %s", resp.StatusCode(), feedURL)
			if resp.StatusCode() == 403 {
				logger.Log.Warn("feed: anti-bot protection triggered, rotating user agent")
			}
			continue
		}

		body := resp.String()
		if !looksLikeRSS(body) {
			logger.Log.Warn("feed: response body is not valid RSS XML")
			continue
		}

		return body
	}

	logger.Log.Error("feed: retries exhausted, giving up on this cycle")
	return ""
}

func looksLikeRSS(body string) bool {
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "<?xml") || strings.Contains(body, "<rss")
}
