package extractor

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/SevereCloud/vksdk/v3/api"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/fetch"
	"google.golang.org/api/youtube/v3"
)

var ErrNoFollowers = errors.New("follower count not found")

// profileHandle возвращает первый сегмент пути без @: instagram.com/name, tiktok.com/@name, t.me/name
func profileHandle(profileURL string) string {
	u, err := url.Parse(strings.TrimSpace(profileURL))
	if err != nil {
		return ""
	}
	for _, segment := range strings.Split(u.Path, "/") {
		if segment = strings.TrimPrefix(segment, "@"); segment != "" && segment != "s" {
			return segment
		}
	}
	return ""
}

// pageFollowers - общий разбор страницы профиля упорядоченным списком экстракторов
type pageFollowers struct {
	name       string
	client     Fetcher
	renderer   Renderer
	extractors []FieldExtractor
	pageURL    func(profileURL string) string
}

func (s *pageFollowers) Name() string { return s.name }

func (s *pageFollowers) Followers(ctx context.Context, profileURL string) (int64, error) {
	target := profileURL
	if s.pageURL != nil {
		target = s.pageURL(profileURL)
	}
	var (
		body string
		err  error
	)
	if s.renderer != nil {
		body, err = s.renderer.Render(ctx, target)
	} else {
		body, err = s.client.Page(ctx, target, nil)
	}
	if err != nil {
		return 0, err
	}
	if count := firstInt(body, s.extractors); count > 0 {
		return count, nil
	}
	return 0, ErrNoFollowers
}

// "1.2M Followers, 300 Following" или "1,2 млн подписчиков, 300 подписок"
var instagramFollowers = []FieldExtractor{
	regexInt(`<meta[^>]+content="` + humanCount + `\s+(?:Followers|подписчик)`),
	regexInt(`\\?"edge_followed_by\\?":\{\\?"count\\?":(\d+)`),
	regexInt(`\\?"follower_count\\?":(\d+)`),
	regexInt(humanCount + `\s+(?:followers|подписчик)`),
}

var tiktokFollowers = []FieldExtractor{
	regexInt(`"followerCount":(\d+)`),
	regexInt(`"follower_count":(\d+)`),
	regexInt(`<meta[^>]+content="[^"]*?` + humanCount + `\s+(?:Followers|подписчик)`),
}

var youtubeSubscribers = []FieldExtractor{
	regexInt(`"subscriberCountText":\{[^{}]*?"simpleText":"` + humanCount + `\s+(?:subscribers|подписчик)`),
	regexInt(`"subscriberCountText":"` + humanCount + `\s+(?:subscribers|подписчик)`),
	regexInt(`"content":"` + humanCount + `\s+(?:subscribers|подписчик)`),
	regexInt(humanCount + `\s+(?:subscribers|подписчик)`),
}

var telegramSubscribers = []FieldExtractor{
	regexInt(`<div class="tgme_page_extra">\s*` + humanCount + `\s+(?:subscribers|members|подписчик|участник)`),
	regexInt(`<span class="counter_value">` + humanCount + `</span>\s*<span class="counter_type">(?:subscribers|members|подписчик)`),
}

var vkSubscribers = []FieldExtractor{
	regexInt(`<span class="header_count[^"]*">` + humanCount + `</span>`),
	regexInt(humanCount + `\s+(?:подписчик|участник|followers|members)`),
}

type instagramProfileAPI struct {
	scraper  scraperClient
	endpoint string
}

func (s *instagramProfileAPI) Name() string { return "instagram_profile_api" }

func (s *instagramProfileAPI) Followers(ctx context.Context, profileURL string) (int64, error) {
	handle := profileHandle(profileURL)
	if handle == "" {
		return 0, ErrNoIdentifier
	}
	doc, err := s.scraper.get(ctx, s.endpoint, url.Values{"username_or_id_or_url": {handle}})
	if err != nil {
		return 0, err
	}
	if count, ok := jsonInt(doc, "follower_count", "followers", "edge_followed_by"); ok {
		return count, nil
	}
	return 0, ErrNoFollowers
}

// youtubeChannelAPI: channels.list по id канала (UC...) или по @handle
type youtubeChannelAPI struct {
	api *youtube.Service
}

var youtubeChannelIDRe = regexp.MustCompile(`/channel/(UC[A-Za-z0-9_-]{22})`)

func (s *youtubeChannelAPI) Name() string { return "youtube_channel_api" }

func (s *youtubeChannelAPI) Followers(ctx context.Context, profileURL string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, fetch.APITimeout)
	defer cancel()

	call := s.api.Channels.List([]string{"statistics"}).Context(ctx)
	if m := youtubeChannelIDRe.FindStringSubmatch(profileURL); len(m) == 2 {
		call = call.Id(m[1])
	} else if handle := profileHandle(profileURL); handle != "" {
		call = call.ForHandle(handle)
	} else {
		return 0, ErrNoIdentifier
	}
	resp, err := call.Do()
	if err != nil {
		return 0, err
	}
	if len(resp.Items) == 0 || resp.Items[0].Statistics == nil {
		return 0, ErrNoFollowers
	}
	return int64(resp.Items[0].Statistics.SubscriberCount), nil
}

var vkGroupRe = regexp.MustCompile(`^(?:club|public|event)(\d+)$`)

// vkGroupMembers: число участников сообщества через groups.getMembers
type vkGroupMembers struct {
	vk *api.VK
}

func (s *vkGroupMembers) Name() string { return "vk_group_members" }

func (s *vkGroupMembers) Followers(ctx context.Context, profileURL string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	group := profileHandle(profileURL)
	if group == "" {
		return 0, ErrNoIdentifier
	}
	if m := vkGroupRe.FindStringSubmatch(group); len(m) == 2 {
		group = m[1]
	}
	ctx, cancel := context.WithTimeout(ctx, fetch.APITimeout)
	defer cancel()

	response, err := s.vk.GroupsGetMembers(api.Params{
		"group_id": group,
		"count":    1,
	}.WithContext(ctx))
	if err != nil {
		return 0, err
	}
	return int64(response.Count), nil
}

// telegramMemberCount: getChatMemberCount через Bot API для публичного канала
type telegramMemberCount struct {
	bot *tgbotapi.BotAPI
}

func (s *telegramMemberCount) Name() string { return "telegram_bot_api" }

func (s *telegramMemberCount) Followers(ctx context.Context, profileURL string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	handle := profileHandle(profileURL)
	if handle == "" {
		return 0, ErrNoIdentifier
	}
	count, err := s.bot.GetChatMembersCount(tgbotapi.ChatMemberCountConfig{
		ChatConfig: tgbotapi.ChatConfig{SuperGroupUsername: "@" + handle},
	})
	if err != nil {
		return 0, err
	}
	return int64(count), nil
}

func instagramProfilePage(profileURL string) string {
	if handle := profileHandle(profileURL); handle != "" {
		return "https://www.instagram.com/" + handle + "/"
	}
	return profileURL
}

func telegramChannelPage(profileURL string) string {
	if handle := profileHandle(profileURL); handle != "" {
		return "https://t.me/" + handle
	}
	return profileURL
}
