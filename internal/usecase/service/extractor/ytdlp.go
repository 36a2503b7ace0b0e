package extractor

import (
	"context"
	"errors"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

const ytdlpTimeout = 30 * time.Second

// ytdlpStrategy спрашивает метаданные у yt-dlp без скачивания.
// Нужен бинарник yt-dlp в PATH, поэтому включается только флагом конфигурации.
type ytdlpStrategy struct{}

func (ytdlpStrategy) Name() string { return "ytdlp" }

func (ytdlpStrategy) Fetch(ctx context.Context, rawURL string) (entity.Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, ytdlpTimeout)
	defer cancel()

	result, err := ytdlp.New().
		SkipDownload().
		PrintJSON().
		Run(ctx, rawURL)
	if err != nil {
		return entity.Metrics{}, err
	}
	infos, err := result.GetExtractedInfo()
	if err != nil {
		return entity.Metrics{}, err
	}
	if len(infos) == 0 || infos[0] == nil {
		return entity.Metrics{}, errors.New("yt-dlp returned no video info")
	}
	info := infos[0]

	m := entity.Metrics{
		Views:    floatCount(info.ViewCount),
		Likes:    floatCount(info.LikeCount),
		Comments: floatCount(info.CommentCount),
	}
	if info.Title != nil {
		m.Title = truncate(*info.Title, maxTitleLength)
	}
	if info.Thumbnail != nil {
		m.ThumbnailURL = *info.Thumbnail
	}
	return m, nil
}

func floatCount(v *float64) int64 {
	if v == nil {
		return 0
	}
	n, _ := toInt(*v)
	return n
}
