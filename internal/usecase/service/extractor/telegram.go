package extractor

import (
	"context"
	"regexp"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

var telegramPostRe = regexp.MustCompile(`t\.me/(?:s/)?([A-Za-z0-9_]{4,})/(\d+)`)

var (
	telegramViews = []FieldExtractor{
		regexInt(`<span class="tgme_widget_message_views">([^<]+)</span>`),
	}
	telegramReactions = []FieldExtractor{
		sumMatches(`<span class="tgme_reaction[^"]*">.*?</i>([\d.,KkMm]+)</span>`),
	}
	telegramTitle = []TextExtractor{
		regexText(`(?s)<div class="tgme_widget_message_text[^"]*"[^>]*>(.*?)</div>`),
		metaContent("og:description"),
	}
	telegramThumbnail = []TextExtractor{
		regexText(`tgme_widget_message_(?:photo_wrap|video_thumb)[^"]*"[^>]*background-image:url\('([^']+)'\)`),
		metaContent("og:image"),
	}
)

// telegramStrategy читает публичный виджет поста канала (?embed=1): просмотры и сумму реакций
type telegramStrategy struct {
	client Fetcher
}

func (s *telegramStrategy) Name() string { return "telegram_widget" }

func (s *telegramStrategy) Fetch(ctx context.Context, rawURL string) (entity.Metrics, error) {
	m := telegramPostRe.FindStringSubmatch(rawURL)
	if len(m) < 3 {
		return entity.Metrics{}, ErrNoIdentifier
	}
	body, err := s.client.Page(ctx, "https://t.me/"+m[1]+"/"+m[2]+"?embed=1&mode=tme", nil)
	if err != nil {
		return entity.Metrics{}, err
	}
	return entity.Metrics{
		Title:        firstText(body, telegramTitle),
		Views:        firstInt(body, telegramViews),
		Likes:        firstInt(body, telegramReactions),
		ThumbnailURL: firstText(body, telegramThumbnail),
	}, nil
}
