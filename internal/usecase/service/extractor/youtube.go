package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/fetch"
	"google.golang.org/api/youtube/v3"
)

var youtubeIDRe = regexp.MustCompile(`(?:youtu\.be/|[?&]v=|/shorts/|/embed/|/live/|/v/)([A-Za-z0-9_-]{11})`)

// YouTubeVideoID достаёт 11-символьный идентификатор ролика из любой формы ссылки
func YouTubeVideoID(rawURL string) string {
	m := youtubeIDRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func YouTubeThumbnail(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
}

var (
	youtubeViews = []FieldExtractor{
		regexInt(`"viewCount":"(\d+)"`),
		regexInt(`"viewCount":\{"simpleText":"([\d\s.,]+)`),
		regexInt(`itemprop="interactionCount"\s+content="(\d+)"`),
		regexInt(`itemprop="userInteractionCount"\s+content="(\d+)"`),
	}
	youtubeLikes = []FieldExtractor{
		regexInt(`"likeCount":"?(\d+)`),
		regexInt(`"label":"` + humanCount + `\s+(?:likes|отметок|отметки)`),
		regexInt(`"accessibilityText":"[^"]*?` + humanCount + `\s+(?:other people|likes|пользователям)`),
	}
	youtubeComments = []FieldExtractor{
		regexInt(`"commentCount":"?(\d+)`),
		regexInt(`"commentCount":\{"simpleText":"` + humanCount + `"`),
		regexInt(`"contextualInfo":\{"runs":\[\{"text":"` + humanCount + `"\}\]`),
		countMatches(`"@type"\s*:\s*"(?:https?://schema\.org/)?Comment"`),
		countMatches(`itemtype="https?://schema\.org/Comment"`),
	}
	youtubeTitle = []TextExtractor{
		metaContent("og:title"),
		metaContent("title"),
		regexText(`<title>(.*?)(?: - YouTube)?</title>`),
	}
)

// youtubeStrategy разбирает страницу ролика, затем поверх накладывает Data API v3.
// Поля API заменяют поля страницы, только если API вернул для них значение.
type youtubeStrategy struct {
	client Fetcher
	api    *youtube.Service
}

func (s *youtubeStrategy) Name() string { return "youtube" }

func (s *youtubeStrategy) Fetch(ctx context.Context, rawURL string) (entity.Metrics, error) {
	id := YouTubeVideoID(rawURL)
	if id == "" {
		return entity.Metrics{}, ErrNoIdentifier
	}
	m := entity.Metrics{ThumbnailURL: YouTubeThumbnail(id)}

	body, pageErr := s.client.Page(ctx, "https://www.youtube.com/watch?v="+id, map[string]string{
		// обходит страницу согласия на cookie в ЕС
		"Cookie": "CONSENT=YES+1",
	})
	if pageErr == nil {
		parseYouTubePage(body, &m)
	} else {
		log.Warnf("youtube: страница %s не загружена: %v", id, pageErr)
	}

	if s.api == nil {
		return m, pageErr
	}
	if err := s.applyAPI(ctx, id, &m); err != nil {
		log.Warnf("youtube: Data API для %s: %v", id, err)
		if pageErr != nil {
			return m, fmt.Errorf("page: %v, api: %w", pageErr, err)
		}
	}
	return m, nil
}

func parseYouTubePage(body string, m *entity.Metrics) {
	m.Title = strings.TrimSuffix(firstText(body, youtubeTitle), " - YouTube")
	// у удалённых и недоступных роликов в заголовке только имя сайта
	if strings.EqualFold(m.Title, "YouTube") {
		m.Title = ""
	}
	m.Views = firstInt(body, youtubeViews)
	m.Likes = firstInt(body, youtubeLikes)
	m.Comments = firstInt(body, youtubeComments)
}

// applyAPI накладывает statistics и snippet. Нулевое значение API считается отсутствующим:
// скрытые лайки и закрытые комментарии API отдаёт пустыми, а не нулём.
func (s *youtubeStrategy) applyAPI(ctx context.Context, id string, m *entity.Metrics) error {
	ctx, cancel := context.WithTimeout(ctx, fetch.APITimeout)
	defer cancel()

	resp, err := s.api.Videos.List([]string{"snippet", "statistics"}).Id(id).Context(ctx).Do()
	if err != nil {
		return err
	}
	if len(resp.Items) == 0 {
		return fmt.Errorf("video %s not found", id)
	}
	item := resp.Items[0]
	if stats := item.Statistics; stats != nil {
		if stats.ViewCount > 0 {
			m.Views = int64(stats.ViewCount)
		}
		if stats.LikeCount > 0 {
			m.Likes = int64(stats.LikeCount)
		}
		if stats.CommentCount > 0 {
			m.Comments = int64(stats.CommentCount)
		}
	}
	if item.Snippet != nil && item.Snippet.Title != "" {
		m.Title = item.Snippet.Title
	}
	return nil
}

// youtubeAccept: для YouTube достаточно заголовка, превью есть всегда
func youtubeAccept(m entity.Metrics) bool {
	return m.Title != "" || m.Views > 0 || m.Likes > 0
}

func youtubeFallback(rawURL string) entity.Metrics {
	if id := YouTubeVideoID(rawURL); id != "" {
		return entity.Metrics{ThumbnailURL: YouTubeThumbnail(id)}
	}
	return entity.Metrics{}
}
