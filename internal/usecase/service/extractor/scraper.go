package extractor

import (
	"context"
	"net/url"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

// ScraperConfig - сторонний scraping API (по умолчанию хосты RapidAPI).
// Пустой Key отключает все стратегии, которые к нему обращаются.
type ScraperConfig struct {
	Key              string
	TikTokVideoURL   string
	InstagramPostURL string
	InstagramUserURL string
}

const (
	DefaultTikTokVideoURL   = "https://tiktok-scraper7.p.rapidapi.com/"
	DefaultInstagramPostURL = "https://instagram-scraper-api2.p.rapidapi.com/v1/post_info"
	DefaultInstagramUserURL = "https://instagram-scraper-api2.p.rapidapi.com/v1/info"
)

func (c ScraperConfig) withDefaults() ScraperConfig {
	if c.TikTokVideoURL == "" {
		c.TikTokVideoURL = DefaultTikTokVideoURL
	}
	if c.InstagramPostURL == "" {
		c.InstagramPostURL = DefaultInstagramPostURL
	}
	if c.InstagramUserURL == "" {
		c.InstagramUserURL = DefaultInstagramUserURL
	}
	return c
}

// scraperClient вызывает scraping API и декодирует ответ без жёсткой схемы:
// у разных провайдеров поля лежат на разной глубине.
type scraperClient struct {
	client Fetcher
	key    string
}

func (s scraperClient) enabled() bool {
	return s.key != ""
}

func (s scraperClient) get(ctx context.Context, endpoint string, query url.Values) (any, error) {
	if !s.enabled() {
		return nil, ErrNotConfigured
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var doc any
	headers := map[string]string{
		"X-RapidAPI-Key":  s.key,
		"X-RapidAPI-Host": u.Host,
	}
	if err := s.client.JSON(ctx, u.String(), headers, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// metricsFromJSON собирает метрики из произвольного JSON ответа по спискам ключей
func metricsFromJSON(doc any, keys metricKeys) entity.Metrics {
	var m entity.Metrics
	m.Views, _ = jsonInt(doc, keys.views...)
	m.Likes, _ = jsonInt(doc, keys.likes...)
	m.Comments, _ = jsonInt(doc, keys.comments...)
	m.Title, _ = jsonString(doc, keys.title...)
	m.ThumbnailURL, _ = jsonString(doc, keys.thumbnail...)
	return m
}

type metricKeys struct {
	views     []string
	likes     []string
	comments  []string
	title     []string
	thumbnail []string
}
