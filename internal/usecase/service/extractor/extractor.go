package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

var (
	ErrNoIdentifier  = errors.New("failed to find content identifier in url")
	ErrNoEngagement  = errors.New("response has no engagement counters")
	ErrNotConfigured = errors.New("strategy is not configured")
)

// Fetcher - сетевой слой стратегий. Реализуется pkg/fetch.Client.
type Fetcher interface {
	Page(ctx context.Context, rawURL string, headers map[string]string) (string, error)
	JSON(ctx context.Context, rawURL string, headers map[string]string, v any) error
}

// Renderer отрисовывает страницу в headless браузере. Реализуется pkg/browser.Chrome.
type Renderer interface {
	Render(ctx context.Context, rawURL string) (string, error)
}

// Strategy - один способ получить метрики ролика
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, rawURL string) (entity.Metrics, error)
}

// FollowerStrategy - один способ получить число подписчиков профиля
type FollowerStrategy interface {
	Name() string
	Followers(ctx context.Context, profileURL string) (int64, error)
}

// Chain - упорядоченные стратегии одной площадки.
// Accept решает, достаточно ли результата, чтобы не идти к следующей стратегии.
// Fallback отдаёт то, что известно без сети, когда вся цепочка исчерпана.
type Chain struct {
	Strategies []Strategy
	Accept     func(entity.Metrics) bool
	Fallback   func(rawURL string) entity.Metrics
}

// Extractor обходит цепочки стратегий и никогда не возвращает ошибку наружу
type Extractor struct {
	chains    map[entity.Platform]Chain
	followers map[entity.Platform][]FollowerStrategy
}

// NewWithChains собирает экстрактор из готовых цепочек
func NewWithChains(chains map[entity.Platform]Chain, followers map[entity.Platform][]FollowerStrategy) *Extractor {
	if chains == nil {
		chains = map[entity.Platform]Chain{}
	}
	if followers == nil {
		followers = map[entity.Platform][]FollowerStrategy{}
	}
	return &Extractor{
		chains:    chains,
		followers: followers,
	}
}

// Extract определяет площадку по ссылке и возвращает метрики первой удачной стратегии.
// При неудаче всех стратегий статус Unavailable, метрики нулевые
// (для YouTube сохраняется превью, вычисленное из идентификатора ролика).
func (e *Extractor) Extract(ctx context.Context, rawURL string) entity.ExtractResult {
	platform := entity.DetectPlatform(rawURL)
	result := entity.ExtractResult{
		Status:   entity.ExtractUnavailable,
		Platform: platform,
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		log.Warnf("extractor: пустая ссылка")
		return result
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		log.Warnf("extractor: некорректная ссылка %q: %v", rawURL, err)
		return result
	}

	chain, ok := e.chains[platform]
	if !ok || len(chain.Strategies) == 0 {
		log.Infof("extractor: для площадки %s нет стратегий, ссылка %s", platform, rawURL)
		return result
	}
	accept := chain.Accept
	if accept == nil {
		accept = entity.Metrics.HasEngagement
	}

	for _, strategy := range chain.Strategies {
		if ctx.Err() != nil {
			log.Warnf("extractor: сбор метрик %s прерван: %v", rawURL, ctx.Err())
			break
		}
		metrics, err := runStrategy(ctx, strategy, rawURL)
		if err != nil {
			log.Warnf("extractor: стратегия %s не сработала для %s: %v", strategy.Name(), rawURL, err)
			continue
		}
		if !accept(metrics) {
			log.Infof("extractor: стратегия %s вернула пустой результат для %s", strategy.Name(), rawURL)
			continue
		}
		log.Infof("extractor: %s через %s: views=%d likes=%d comments=%d",
			rawURL, strategy.Name(), metrics.Views, metrics.Likes, metrics.Comments)
		result.Status = entity.ExtractSuccess
		result.Metrics = metrics
		result.Strategy = strategy.Name()
		return result
	}

	log.Warnf("extractor: все стратегии исчерпаны для %s", rawURL)
	if chain.Fallback != nil {
		result.Metrics = chain.Fallback(rawURL)
	}
	return result
}

// ExtractMetrics отдаёт только метрики: при неудаче нулевой кортеж (у YouTube остаётся превью)
func (e *Extractor) ExtractMetrics(ctx context.Context, rawURL string) entity.Metrics {
	return e.Extract(ctx, rawURL).Metrics
}

// ExtractFollowerCount возвращает число подписчиков профиля или 0, если ни одна стратегия не сработала
func (e *Extractor) ExtractFollowerCount(ctx context.Context, profileURL string) int64 {
	profileURL = strings.TrimSpace(profileURL)
	if profileURL == "" {
		return 0
	}
	platform := entity.DetectPlatform(profileURL)
	for _, strategy := range e.followers[platform] {
		if ctx.Err() != nil {
			break
		}
		count, err := runFollowerStrategy(ctx, strategy, profileURL)
		if err != nil {
			log.Warnf("extractor: подписчики через %s не получены для %s: %v", strategy.Name(), profileURL, err)
			continue
		}
		if count > 0 {
			log.Infof("extractor: %d подписчиков у %s через %s", count, profileURL, strategy.Name())
			return count
		}
	}
	return 0
}

func runStrategy(ctx context.Context, strategy Strategy, rawURL string) (metrics entity.Metrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			metrics = entity.Metrics{}
			err = fmt.Errorf("strategy %s panicked: %v", strategy.Name(), r)
		}
	}()
	return strategy.Fetch(ctx, rawURL)
}

func runFollowerStrategy(ctx context.Context, strategy FollowerStrategy, profileURL string) (count int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			count = 0
			err = fmt.Errorf("follower strategy %s panicked: %v", strategy.Name(), r)
		}
	}()
	return strategy.Followers(ctx, profileURL)
}
