package extractor

import (
	"context"
	"net/url"
	"regexp"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

var instagramCodeRe = regexp.MustCompile(`/(?:p|reel|reels|tv)/([A-Za-z0-9_-]+)`)

// InstagramShortcode достаёт код публикации из сегмента /p/, /reel/ или /tv/
func InstagramShortcode(rawURL string) string {
	m := instagramCodeRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func instagramPostURL(code string) string {
	return "https://www.instagram.com/p/" + code + "/"
}

var instagramAPIKeys = metricKeys{
	views:     []string{"play_count", "ig_play_count", "video_play_count", "video_view_count", "view_count"},
	likes:     []string{"like_count", "edge_liked_by", "edge_media_preview_like", "likes"},
	comments:  []string{"comment_count", "edge_media_to_comment", "edge_media_preview_comment", "comments"},
	title:     []string{"caption", "caption_text", "title"},
	thumbnail: []string{"thumbnail_url", "display_url", "thumbnail_src"},
}

// 1. scraping API по коду публикации
type instagramAPIStrategy struct {
	scraper  scraperClient
	endpoint string
}

func (s *instagramAPIStrategy) Name() string { return "instagram_api" }

func (s *instagramAPIStrategy) Fetch(ctx context.Context, rawURL string) (entity.Metrics, error) {
	if !s.scraper.enabled() {
		return entity.Metrics{}, ErrNotConfigured
	}
	code := InstagramShortcode(rawURL)
	if code == "" {
		return entity.Metrics{}, ErrNoIdentifier
	}
	doc, err := s.scraper.get(ctx, s.endpoint, url.Values{"code_or_id_or_url": {code}})
	if err != nil {
		return entity.Metrics{}, err
	}
	return metricsFromJSON(doc, instagramAPIKeys), nil
}

// шаблоны допускают экранированные кавычки: embed кладёт JSON строкой внутрь скрипта
var (
	instagramEmbedLikes = []FieldExtractor{
		regexInt(`\\?"edge_liked_by\\?":\{\\?"count\\?":(\d+)`),
		regexInt(`\\?"edge_media_preview_like\\?":\{\\?"count\\?":(\d+)`),
		regexInt(`\\?"like_count\\?":(\d+)`),
		regexInt(`class="SocialProof"[^>]*>(?:\s*<[^>]+>)*\s*` + humanCount + `\s+(?:likes|отмет)`),
		regexInt(humanCount + `\s+(?:likes|отметок «Нравится»|отметки «Нравится»|отметка «Нравится»)`),
	}
	instagramEmbedComments = []FieldExtractor{
		regexInt(`\\?"edge_media_to_comment\\?":\{\\?"count\\?":(\d+)`),
		regexInt(`\\?"edge_media_preview_comment\\?":\{\\?"count\\?":(\d+)`),
		regexInt(`\\?"comment_count\\?":(\d+)`),
		regexInt(`View all ` + humanCount + `\s+comments`),
		regexInt(`Посмотреть все комментарии \(` + humanCount + `\)`),
		regexInt(`(?:Посмотреть все|Смотреть все)\s+` + humanCount + `\s+комментари`),
		regexInt(humanCount + `\s+(?:comments|комментари)`),
	}
	instagramEmbedViews = []FieldExtractor{
		regexInt(`\\?"video_view_count\\?":(\d+)`),
		regexInt(`\\?"video_play_count\\?":(\d+)`),
		regexInt(`\\?"play_count\\?":(\d+)`),
		regexInt(humanCount + `\s+(?:views|plays|просмотр)`),
	}
	instagramEmbedCaption = []TextExtractor{
		regexText(`(?s)<div class="Caption"[^>]*>(.*?)<div class="CaptionComments"`),
		regexText(`(?s)<div class="Caption"[^>]*>(.*?)</div>`),
	}
	instagramEmbedThumbnail = []TextExtractor{
		regexText(`<img class="EmbeddedMediaImage"[^>]*src="([^"]+)"`),
		regexText(`\\?"display_url\\?":\\?"((?:[^"\\]|\\.)*?)\\?"`),
	}
)

// 2. публичная embed страница без стены логина
type instagramEmbedStrategy struct {
	client Fetcher
}

func (s *instagramEmbedStrategy) Name() string { return "instagram_embed" }

func (s *instagramEmbedStrategy) Fetch(ctx context.Context, rawURL string) (entity.Metrics, error) {
	code := InstagramShortcode(rawURL)
	if code == "" {
		return entity.Metrics{}, ErrNoIdentifier
	}
	body, err := s.client.Page(ctx, instagramPostURL(code)+"embed/captioned/", nil)
	if err != nil {
		return entity.Metrics{}, err
	}
	return entity.Metrics{
		Title:        firstText(body, instagramEmbedCaption),
		Views:        firstInt(body, instagramEmbedViews),
		Likes:        firstInt(body, instagramEmbedLikes),
		Comments:     firstInt(body, instagramEmbedComments),
		ThumbnailURL: firstText(body, instagramEmbedThumbnail),
	}, nil
}

// og:description вида "1,234 likes, 56 comments - user on ..." или "1 234 отметок «Нравится», 56 комментариев - ..."
var (
	instagramDescription = metaContent("og:description")
	instagramPageLikes   = []FieldExtractor{
		regexInt(`^` + humanCount + `\s+(?:likes?|отмет)`),
		regexInt(`\\?"like_count\\?":(\d+)`),
		regexInt(`\\?"edge_media_preview_like\\?":\{\\?"count\\?":(\d+)`),
	}
	instagramPageComments = []FieldExtractor{
		regexInt(`,\s*` + humanCount + `\s+(?:comments?|комментари)`),
		regexInt(`\\?"comment_count\\?":(\d+)`),
		regexInt(`\\?"edge_media_to_comment\\?":\{\\?"count\\?":(\d+)`),
	}
	instagramPageViews = []FieldExtractor{
		regexInt(`\\?"play_count\\?":(\d+)`),
		regexInt(`\\?"video_view_count\\?":(\d+)`),
		regexInt(`\\?"view_count\\?":(\d+)`),
	}
	instagramPageTitle = []TextExtractor{
		metaContent("og:title"),
		regexText(`<title>(.*?)</title>`),
	}
	instagramPageThumbnail = []TextExtractor{
		metaContent("og:image"),
	}
)

// parseInstagramPage разбирает страницу публикации: и статический ответ, и DOM после рендера
func parseInstagramPage(body string) entity.Metrics {
	description, _ := instagramDescription(body)
	m := entity.Metrics{
		Title:        firstText(body, instagramPageTitle),
		ThumbnailURL: firstText(body, instagramPageThumbnail),
		Views:        firstInt(body, instagramPageViews),
	}
	if m.Likes = firstInt(description, instagramPageLikes[:1]); m.Likes == 0 {
		m.Likes = firstInt(body, instagramPageLikes[1:])
	}
	if m.Comments = firstInt(description, instagramPageComments[:1]); m.Comments == 0 {
		m.Comments = firstInt(body, instagramPageComments[1:])
	}
	return m
}

// 3. сама страница публикации
type instagramPageStrategy struct {
	client Fetcher
}

func (s *instagramPageStrategy) Name() string { return "instagram_page" }

func (s *instagramPageStrategy) Fetch(ctx context.Context, rawURL string) (entity.Metrics, error) {
	code := InstagramShortcode(rawURL)
	if code == "" {
		return entity.Metrics{}, ErrNoIdentifier
	}
	body, err := s.client.Page(ctx, instagramPostURL(code), nil)
	if err != nil {
		return entity.Metrics{}, err
	}
	return parseInstagramPage(body), nil
}

// 4. headless браузер, когда статический запрос упирается в логин
type instagramRenderStrategy struct {
	renderer Renderer
}

func (s *instagramRenderStrategy) Name() string { return "instagram_headless" }

func (s *instagramRenderStrategy) Fetch(ctx context.Context, rawURL string) (entity.Metrics, error) {
	code := InstagramShortcode(rawURL)
	if code == "" {
		return entity.Metrics{}, ErrNoIdentifier
	}
	body, err := s.renderer.Render(ctx, instagramPostURL(code))
	if err != nil {
		return entity.Metrics{}, err
	}
	return parseInstagramPage(body), nil
}
