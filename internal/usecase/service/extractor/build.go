package extractor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SevereCloud/vksdk/v3/api"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/fetch"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Config - набор возможностей. Отсутствие ключа убирает стратегию из цепочки,
// сигнатуры Extract и ExtractFollowerCount от этого не меняются.
type Config struct {
	YouTubeAPIKey string
	// YouTubeAPIEndpoint переопределяет адрес Data API, пусто - боевой
	YouTubeAPIEndpoint string
	Scraper            ScraperConfig
	VKServiceToken     string
	// VKAPIEndpoint - адрес методов VK API, пусто - api.MethodURL
	VKAPIEndpoint    string
	TelegramBotToken string
	// TelegramAPIEndpoint - шаблон адреса Bot API, пусто - tgbotapi.APIEndpoint
	TelegramAPIEndpoint string
	// Renderer включает headless стратегии Instagram, nil - выключены
	Renderer Renderer
	YtDlp    bool
}

// New собирает цепочки стратегий всех площадок согласно конфигурации
func New(ctx context.Context, client Fetcher, cfg Config) (*Extractor, error) {
	scraper := scraperClient{client: client, key: cfg.Scraper.Key}
	endpoints := cfg.Scraper.withDefaults()

	var yt *youtube.Service
	if cfg.YouTubeAPIKey != "" {
		opts := []option.ClientOption{option.WithAPIKey(cfg.YouTubeAPIKey)}
		if cfg.YouTubeAPIEndpoint != "" {
			opts = append(opts, option.WithEndpoint(cfg.YouTubeAPIEndpoint))
		}
		var err error
		yt, err = youtube.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create youtube service: %w", err)
		}
	} else {
		log.Info("extractor: YOUTUBE_API_KEY не задан, YouTube только через страницу")
	}

	var vk *api.VK
	if cfg.VKServiceToken != "" {
		vk = api.NewVK(cfg.VKServiceToken)
		vk.Client = &http.Client{Timeout: fetch.APITimeout}
		if cfg.VKAPIEndpoint != "" {
			vk.MethodURL = cfg.VKAPIEndpoint
		}
	} else {
		log.Info("extractor: VK_SERVICE_TOKEN не задан, метрики VK недоступны без yt-dlp")
	}

	var bot *tgbotapi.BotAPI
	if cfg.TelegramBotToken != "" {
		// без getMe при старте: бот нужен только для getChatMemberCount
		bot = &tgbotapi.BotAPI{
			Token:  cfg.TelegramBotToken,
			Client: &http.Client{Timeout: fetch.APITimeout},
			Buffer: 100,
		}
		endpoint := cfg.TelegramAPIEndpoint
		if endpoint == "" {
			endpoint = tgbotapi.APIEndpoint
		}
		bot.SetAPIEndpoint(endpoint)
	}

	if !scraper.enabled() {
		log.Info("extractor: ключ scraping API не задан, TikTok и Instagram только через страницы")
	}

	chains := map[entity.Platform]Chain{
		entity.PlatformYouTube: {
			Strategies: []Strategy{&youtubeStrategy{client: client, api: yt}},
			Accept:     youtubeAccept,
			Fallback:   youtubeFallback,
		},
		entity.PlatformTikTok: {
			Strategies: []Strategy{
				&tiktokAPIStrategy{scraper: scraper, endpoint: endpoints.TikTokVideoURL},
				&tiktokPageStrategy{client: client},
			},
		},
		entity.PlatformInstagram: {
			Strategies: []Strategy{
				&instagramAPIStrategy{scraper: scraper, endpoint: endpoints.InstagramPostURL},
				&instagramEmbedStrategy{client: client},
				&instagramPageStrategy{client: client},
			},
		},
		entity.PlatformTelegram: {
			Strategies: []Strategy{&telegramStrategy{client: client}},
		},
	}

	followers := map[entity.Platform][]FollowerStrategy{
		entity.PlatformInstagram: {
			&instagramProfileAPI{scraper: scraper, endpoint: endpoints.InstagramUserURL},
			&pageFollowers{name: "instagram_profile_page", client: client, extractors: instagramFollowers, pageURL: instagramProfilePage},
		},
		entity.PlatformTikTok: {
			&pageFollowers{name: "tiktok_profile_page", client: client, extractors: tiktokFollowers},
		},
		entity.PlatformYouTube: {
			&pageFollowers{name: "youtube_channel_page", client: client, extractors: youtubeSubscribers},
		},
		entity.PlatformVK: {
			&pageFollowers{name: "vk_community_page", client: client, extractors: vkSubscribers},
		},
		entity.PlatformTelegram: {
			&pageFollowers{name: "telegram_channel_page", client: client, extractors: telegramSubscribers, pageURL: telegramChannelPage},
		},
	}

	if cfg.Renderer != nil {
		chains[entity.PlatformInstagram] = appendStrategies(chains[entity.PlatformInstagram],
			&instagramRenderStrategy{renderer: cfg.Renderer})
		followers[entity.PlatformInstagram] = append(followers[entity.PlatformInstagram],
			&pageFollowers{name: "instagram_profile_headless", renderer: cfg.Renderer, extractors: instagramFollowers, pageURL: instagramProfilePage})
	}
	if yt != nil {
		followers[entity.PlatformYouTube] = append([]FollowerStrategy{&youtubeChannelAPI{api: yt}}, followers[entity.PlatformYouTube]...)
	}
	if vk != nil {
		chains[entity.PlatformVK] = Chain{Strategies: []Strategy{&vkStrategy{vk: vk}}}
		followers[entity.PlatformVK] = append([]FollowerStrategy{&vkGroupMembers{vk: vk}}, followers[entity.PlatformVK]...)
	}
	if bot != nil {
		followers[entity.PlatformTelegram] = append([]FollowerStrategy{&telegramMemberCount{bot: bot}}, followers[entity.PlatformTelegram]...)
	}
	if cfg.YtDlp {
		for _, platform := range []entity.Platform{entity.PlatformTikTok, entity.PlatformVK, entity.PlatformLikee, entity.PlatformOther} {
			chains[platform] = appendStrategies(chains[platform], ytdlpStrategy{})
		}
	}

	return NewWithChains(chains, followers), nil
}

func appendStrategies(chain Chain, strategies ...Strategy) Chain {
	chain.Strategies = append(append([]Strategy{}, chain.Strategies...), strategies...)
	return chain
}
