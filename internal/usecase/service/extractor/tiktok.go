package extractor

import (
	"context"
	"net/url"
	"regexp"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

var tiktokIDRe = regexp.MustCompile(`/(?:video|photo|v)/(\d{8,25})`)

// TikTokVideoID достаёт числовой идентификатор ролика. У коротких ссылок vm.tiktok.com его нет.
func TikTokVideoID(rawURL string) string {
	m := tiktokIDRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

var tiktokAPIKeys = metricKeys{
	views:     []string{"play_count", "playCount", "views", "view_count"},
	likes:     []string{"digg_count", "diggCount", "likes", "like_count"},
	comments:  []string{"comment_count", "commentCount", "comments"},
	title:     []string{"title", "desc", "description"},
	thumbnail: []string{"cover", "origin_cover", "thumbnail", "dynamic_cover"},
}

type tiktokAPIStrategy struct {
	scraper  scraperClient
	endpoint string
}

func (s *tiktokAPIStrategy) Name() string { return "tiktok_api" }

func (s *tiktokAPIStrategy) Fetch(ctx context.Context, rawURL string) (entity.Metrics, error) {
	if !s.scraper.enabled() {
		return entity.Metrics{}, ErrNotConfigured
	}
	id := TikTokVideoID(rawURL)
	if id == "" {
		return entity.Metrics{}, ErrNoIdentifier
	}
	doc, err := s.scraper.get(ctx, s.endpoint, url.Values{"url": {rawURL}, "video_id": {id}})
	if err != nil {
		return entity.Metrics{}, err
	}
	m := metricsFromJSON(doc, tiktokAPIKeys)
	if m.Views <= 0 && m.Likes <= 0 {
		return entity.Metrics{}, ErrNoEngagement
	}
	return m, nil
}

var (
	tiktokStatsBlobs = []*regexp.Regexp{
		regexp.MustCompile(`"statsV2":\{([^{}]*)\}`),
		regexp.MustCompile(`"stats":\{([^{}]*)\}`),
	}
	tiktokViews = []FieldExtractor{
		regexInt(`"playCount":"?(\d+)`),
		regexInt(`"play_count":"?(\d+)`),
		regexInt(`"viewCount":"?(\d+)`),
	}
	tiktokLikes = []FieldExtractor{
		regexInt(`"diggCount":"?(\d+)`),
		regexInt(`"digg_count":"?(\d+)`),
		regexInt(`"likeCount":"?(\d+)`),
	}
	tiktokComments = []FieldExtractor{
		regexInt(`"commentCount":"?(\d+)`),
		regexInt(`"comment_count":"?(\d+)`),
	}
	tiktokTitle = []TextExtractor{
		metaContent("og:title"),
		metaContent("og:description"),
		regexText(`"desc":"((?:[^"\\]|\\.)*)"`),
	}
	tiktokThumbnail = []TextExtractor{
		metaContent("og:image"),
		regexText(`"cover":"((?:[^"\\]|\\.)*)"`),
	}
)

// tiktokPageStrategy читает публичную страницу ролика: сначала блок statsV2, затем отдельные поля
type tiktokPageStrategy struct {
	client Fetcher
}

func (s *tiktokPageStrategy) Name() string { return "tiktok_page" }

func (s *tiktokPageStrategy) Fetch(ctx context.Context, rawURL string) (entity.Metrics, error) {
	body, err := s.client.Page(ctx, rawURL, nil)
	if err != nil {
		return entity.Metrics{}, err
	}
	return parseTikTokPage(body), nil
}

func parseTikTokPage(body string) entity.Metrics {
	m := entity.Metrics{
		Title:        firstText(body, tiktokTitle),
		ThumbnailURL: firstText(body, tiktokThumbnail),
	}
	for _, blob := range tiktokStatsBlobs {
		match := blob.FindStringSubmatch(body)
		if len(match) < 2 {
			continue
		}
		m.Views = firstInt(match[1], tiktokViews)
		m.Likes = firstInt(match[1], tiktokLikes)
		m.Comments = firstInt(match[1], tiktokComments)
		if m.HasEngagement() {
			return m
		}
	}
	m.Views = firstInt(body, tiktokViews)
	m.Likes = firstInt(body, tiktokLikes)
	m.Comments = firstInt(body, tiktokComments)
	return m
}
