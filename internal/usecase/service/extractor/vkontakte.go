package extractor

import (
	"context"
	"errors"
	"regexp"

	"github.com/SevereCloud/vksdk/v3/api"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/fetch"
)

var (
	vkVideoRe = regexp.MustCompile(`(?:video|clip)(-?\d+_\d+)`)
	vkWallRe  = regexp.MustCompile(`wall(-?\d+_\d+)`)
)

// vkStrategy читает счётчики через VK API сервисным токеном: video.get для роликов и клипов, wall.getById для постов
type vkStrategy struct {
	vk *api.VK
}

func (s *vkStrategy) Name() string { return "vk_api" }

func (s *vkStrategy) Fetch(ctx context.Context, rawURL string) (entity.Metrics, error) {
	if err := ctx.Err(); err != nil {
		return entity.Metrics{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, fetch.APITimeout)
	defer cancel()

	if m := vkVideoRe.FindStringSubmatch(rawURL); len(m) == 2 {
		return s.video(ctx, m[1])
	}
	if m := vkWallRe.FindStringSubmatch(rawURL); len(m) == 2 {
		return s.wallPost(ctx, m[1])
	}
	return entity.Metrics{}, ErrNoIdentifier
}

func (s *vkStrategy) video(ctx context.Context, id string) (entity.Metrics, error) {
	response, err := s.vk.VideoGet(api.Params{
		"videos": id,
	}.WithContext(ctx))
	if err != nil {
		return entity.Metrics{}, err
	}
	if len(response.Items) == 0 {
		return entity.Metrics{}, errors.New("video not found")
	}
	item := response.Items[0]
	m := entity.Metrics{
		Title:    truncate(item.Title, maxTitleLength),
		Views:    int64(item.Views),
		Likes:    int64(item.Likes.Count),
		Comments: int64(item.Comments),
	}
	// превью отсортированы по размеру, берём самое крупное
	if n := len(item.Image); n > 0 {
		m.ThumbnailURL = item.Image[n-1].URL
	}
	return m, nil
}

func (s *vkStrategy) wallPost(ctx context.Context, id string) (entity.Metrics, error) {
	response, err := s.vk.WallGetByID(api.Params{
		"posts": id,
	}.WithContext(ctx))
	if err != nil {
		return entity.Metrics{}, err
	}
	if len(response.Items) == 0 {
		return entity.Metrics{}, errors.New("post not found")
	}
	post := response.Items[0]
	return entity.Metrics{
		Title:    cleanText(post.Text),
		Views:    int64(post.Views.Count),
		Likes:    int64(post.Likes.Count),
		Comments: int64(post.Comments.Count),
	}, nil
}
