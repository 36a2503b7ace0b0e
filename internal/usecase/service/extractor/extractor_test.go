package extractor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/pkg/fetch"
)

var errNetworkDown = errors.New("network is unreachable")

type stubResponse struct {
	status int
	body   string
}

// stubTransport отвечает по host+path и считает обращения; неизвестный адрес - сетевая ошибка
type stubTransport struct {
	mu        sync.Mutex
	responses map[string]stubResponse
	calls     map[string]int
}

func newStubTransport(responses map[string]stubResponse) *stubTransport {
	return &stubTransport{responses: responses, calls: map[string]int{}}
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	key := req.URL.Host + req.URL.Path
	s.mu.Lock()
	s.calls[key]++
	resp, ok := s.responses[key]
	s.mu.Unlock()
	if !ok {
		return nil, errNetworkDown
	}
	return &http.Response{
		StatusCode: resp.status,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
		Header:     http.Header{"Content-Type": {"text/html"}},
		Request:    req,
	}, nil
}

func (s *stubTransport) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func (s *stubTransport) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func newStubClient(transport *stubTransport) *fetch.Client {
	return fetch.New(fetch.WithHTTPClient(&http.Client{Transport: transport}))
}

type countingStrategy struct {
	name    string
	metrics entity.Metrics
	err     error
	panics  bool
	calls   int
}

func (s *countingStrategy) Name() string { return s.name }

func (s *countingStrategy) Fetch(context.Context, string) (entity.Metrics, error) {
	s.calls++
	if s.panics {
		panic("unexpected markup")
	}
	return s.metrics, s.err
}

type failingRenderer struct {
	calls int
}

func (r *failingRenderer) Render(context.Context, string) (string, error) {
	r.calls++
	return "", errors.New("chrome failed to start")
}

func TestExtract_StopsOnFirstAcceptedStrategy(t *testing.T) {
	first := &countingStrategy{name: "first", metrics: entity.Metrics{Views: 10}}
	second := &countingStrategy{name: "second", metrics: entity.Metrics{Views: 99}}
	e := NewWithChains(map[entity.Platform]Chain{
		entity.PlatformTikTok: {Strategies: []Strategy{first, second}},
	}, nil)

	result := e.Extract(context.Background(), "https://www.tiktok.com/@user/video/7312345678901234567")

	assert.True(t, result.OK())
	assert.Equal(t, "first", result.Strategy)
	assert.Equal(t, int64(10), result.Metrics.Views)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestExtract_SkipsEmptyFailedAndPanickingStrategies(t *testing.T) {
	empty := &countingStrategy{name: "empty", metrics: entity.Metrics{Title: "only title"}}
	failed := &countingStrategy{name: "failed", err: errors.New("timeout")}
	broken := &countingStrategy{name: "broken", panics: true}
	good := &countingStrategy{name: "good", metrics: entity.Metrics{Likes: 5}}
	e := NewWithChains(map[entity.Platform]Chain{
		entity.PlatformInstagram: {Strategies: []Strategy{empty, failed, broken, good}},
	}, nil)

	result := e.Extract(context.Background(), "https://www.instagram.com/p/Cabc123/")

	require.True(t, result.OK())
	assert.Equal(t, "good", result.Strategy)
	assert.Equal(t, int64(5), result.Metrics.Likes)
	for _, s := range []*countingStrategy{empty, failed, broken, good} {
		assert.Equal(t, 1, s.calls, s.name)
	}
}

func TestExtract_NeverFails(t *testing.T) {
	broken := &countingStrategy{name: "broken", panics: true}
	e := NewWithChains(map[entity.Platform]Chain{
		entity.PlatformTikTok: {Strategies: []Strategy{broken}},
	}, nil)

	urls := []string{
		"",
		"   ",
		"not a url",
		"https://www.threads.net/@user/post/abc",
		"https://max.ru/channel/1",
		"https://www.tiktok.com/@user/video/7312345678901234567",
	}
	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			var result entity.ExtractResult
			require.NotPanics(t, func() {
				result = e.Extract(context.Background(), u)
			})
			assert.Equal(t, entity.ExtractUnavailable, result.Status)
			assert.True(t, result.Metrics.IsZero())
			assert.Empty(t, result.Strategy)
		})
	}
}

func TestExtract_CancelledContextStopsChain(t *testing.T) {
	s := &countingStrategy{name: "s", metrics: entity.Metrics{Views: 1}}
	e := NewWithChains(map[entity.Platform]Chain{
		entity.PlatformTikTok: {Strategies: []Strategy{s}},
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := e.Extract(ctx, "https://www.tiktok.com/@user/video/7312345678901234567")

	assert.False(t, result.OK())
	assert.Equal(t, 0, s.calls)
}

const youtubeWatchPage = `<html><head>
<meta property="og:title" content="Rick Astley - Never Gonna Give You Up">
<title>Rick Astley - Never Gonna Give You Up - YouTube</title>
</head><body><script>var ytInitialPlayerResponse = {"videoDetails":{"viewCount":"1500"}};
var ytInitialData = {"likeCount":"5","commentCount":"12"};</script></body></html>`

func TestExtract_YouTubePageOnly(t *testing.T) {
	transport := newStubTransport(map[string]stubResponse{
		"www.youtube.com/watch": {status: http.StatusOK, body: youtubeWatchPage},
	})
	e, err := New(context.Background(), newStubClient(transport), Config{})
	require.NoError(t, err)

	result := e.Extract(context.Background(), "https://youtu.be/dQw4w9WgXcQ")

	require.True(t, result.OK())
	assert.Equal(t, entity.Metrics{
		Title:        "Rick Astley - Never Gonna Give You Up",
		Views:        1500,
		Likes:        5,
		Comments:     12,
		ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
	}, result.Metrics)
}

func TestExtract_YouTubeAPIOverridesOnlyReturnedFields(t *testing.T) {
	var apiCalls int
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		assert.Contains(t, r.URL.Path, "youtube/v3/videos")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[{"id":"dQw4w9WgXcQ","statistics":{"likeCount":"777"}}]}`)
	}))
	defer api.Close()

	transport := newStubTransport(map[string]stubResponse{
		"www.youtube.com/watch": {status: http.StatusOK, body: youtubeWatchPage},
	})
	e, err := New(context.Background(), newStubClient(transport), Config{
		YouTubeAPIKey:      "test-key",
		YouTubeAPIEndpoint: api.URL + "/",
	})
	require.NoError(t, err)

	m := e.ExtractMetrics(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	assert.Equal(t, int64(1500), m.Views)
	assert.Equal(t, int64(777), m.Likes)
	assert.Equal(t, int64(12), m.Comments)
	assert.Equal(t, "Rick Astley - Never Gonna Give You Up", m.Title)
	assert.Equal(t, 1, apiCalls)
}

func TestExtract_YouTubeUnavailableKeepsThumbnail(t *testing.T) {
	transport := newStubTransport(nil)
	e, err := New(context.Background(), newStubClient(transport), Config{})
	require.NoError(t, err)

	result := e.Extract(context.Background(), "https://www.youtube.com/shorts/dQw4w9WgXcQ")

	assert.False(t, result.OK())
	assert.Equal(t, entity.Metrics{ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"}, result.Metrics)
}

func TestExtract_YouTubeRemovedVideoIsUnavailable(t *testing.T) {
	removed := `<html><head><title>YouTube</title><meta name="title" content="YouTube"></head>
<body><div class="reason">Video unavailable</div></body></html>`
	transport := newStubTransport(map[string]stubResponse{
		"www.youtube.com/watch": {status: http.StatusOK, body: removed},
	})
	e, err := New(context.Background(), newStubClient(transport), Config{})
	require.NoError(t, err)

	m := entity.Metrics{}
	parseYouTubePage(removed, &m)
	assert.Empty(t, m.Title)

	result := e.Extract(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.False(t, result.OK())
	assert.Equal(t, entity.Metrics{ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"}, result.Metrics)
}

func TestExtract_YouTubeCommentsFromSchemaOrg(t *testing.T) {
	body := `<meta property="og:title" content="clip">"viewCount":"10"
<script type="application/ld+json">[{"@type":"Comment","text":"a"},{"@type": "https://schema.org/Comment","text":"b"}]</script>`
	m := entity.Metrics{}
	parseYouTubePage(body, &m)
	assert.Equal(t, int64(2), m.Comments)
	assert.Equal(t, int64(10), m.Views)
}

func TestExtract_InstagramAllStrategiesFail(t *testing.T) {
	transport := newStubTransport(nil)
	renderer := &failingRenderer{}
	e, err := New(context.Background(), newStubClient(transport), Config{
		Scraper:  ScraperConfig{Key: "scraper-key"},
		Renderer: renderer,
	})
	require.NoError(t, err)

	result := e.Extract(context.Background(), "https://www.instagram.com/reel/C1a2b3c4d5e/?igsh=xyz")

	assert.Equal(t, entity.ExtractUnavailable, result.Status)
	assert.Equal(t, entity.Metrics{}, result.Metrics)
	assert.Equal(t, 1, transport.count("instagram-scraper-api2.p.rapidapi.com/v1/post_info"))
	assert.Equal(t, 1, transport.count("www.instagram.com/p/C1a2b3c4d5e/embed/captioned/"))
	assert.Equal(t, 1, transport.count("www.instagram.com/p/C1a2b3c4d5e/"))
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, 3, transport.total())
}

func TestExtract_InstagramEmbedWinsWithoutScraperKey(t *testing.T) {
	embed := `<div class="Caption"><a class="CaptionUsername">user</a> Summer &amp; sea<div class="CaptionComments"></div></div>
<script>window.__additionalDataLoaded('extra',"{\"edge_liked_by\":{\"count\":321},\"edge_media_to_comment\":{\"count\":9},\"video_view_count\":4000}")</script>`
	transport := newStubTransport(map[string]stubResponse{
		"www.instagram.com/p/Cabc123/embed/captioned/": {status: http.StatusOK, body: embed},
	})
	e, err := New(context.Background(), newStubClient(transport), Config{})
	require.NoError(t, err)

	result := e.Extract(context.Background(), "https://www.instagram.com/p/Cabc123/")

	require.True(t, result.OK())
	assert.Equal(t, "instagram_embed", result.Strategy)
	assert.Equal(t, int64(321), result.Metrics.Likes)
	assert.Equal(t, int64(9), result.Metrics.Comments)
	assert.Equal(t, int64(4000), result.Metrics.Views)
	assert.Equal(t, "user Summer & sea", result.Metrics.Title)
	assert.Equal(t, 0, transport.count("www.instagram.com/p/Cabc123/"))
}

func TestParseInstagramPage_Locales(t *testing.T) {
	tests := []struct {
		name         string
		description  string
		wantLikes    int64
		wantComments int64
	}{
		{"english", "1,234 likes, 56 comments - user on March 1, 2024", 1234, 56},
		{"english short", "1.2K likes, 3 comments - user on May 5", 1200, 3},
		{"russian", "1 234 отметок «Нравится», 56 комментариев - user в Instagram", 1234, 56},
		{"russian million", "1,2 млн отметок «Нравится», 12,3 тыс. комментариев - user", 1200000, 12300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `<meta property="og:title" content="user on Instagram">` +
				`<meta property="og:image" content="https://cdn.example/img.jpg">` +
				`<meta property="og:description" content="` + tt.description + `">`
			m := parseInstagramPage(body)
			assert.Equal(t, tt.wantLikes, m.Likes)
			assert.Equal(t, tt.wantComments, m.Comments)
			assert.Equal(t, "user on Instagram", m.Title)
			assert.Equal(t, "https://cdn.example/img.jpg", m.ThumbnailURL)
		})
	}
}

func TestExtract_TikTokAPIWithoutEngagementFallsBackToPage(t *testing.T) {
	page := `<meta property="og:image" content="https://p16.tiktokcdn.com/cover.jpeg">` +
		`<script>{"itemStruct":{"desc":"dance","statsV2":{"diggCount":"120","shareCount":"3","commentCount":"7","playCount":"4500"}}}</script>`
	transport := newStubTransport(map[string]stubResponse{
		"tiktok-scraper7.p.rapidapi.com/": {status: http.StatusOK, body: `{"data":{"play_count":0,"digg_count":0,"comment_count":5}}`},
		"www.tiktok.com/@user/video/7312345678901234567": {status: http.StatusOK, body: page},
	})
	e, err := New(context.Background(), newStubClient(transport), Config{
		Scraper: ScraperConfig{Key: "scraper-key"},
	})
	require.NoError(t, err)

	result := e.Extract(context.Background(), "https://www.tiktok.com/@user/video/7312345678901234567")

	require.True(t, result.OK())
	assert.Equal(t, "tiktok_page", result.Strategy)
	assert.Equal(t, int64(4500), result.Metrics.Views)
	assert.Equal(t, int64(120), result.Metrics.Likes)
	assert.Equal(t, int64(7), result.Metrics.Comments)
	assert.Equal(t, "https://p16.tiktokcdn.com/cover.jpeg", result.Metrics.ThumbnailURL)
	assert.Equal(t, 1, transport.count("tiktok-scraper7.p.rapidapi.com/"))
}

func TestExtract_TikTokAPIShortCircuitsPage(t *testing.T) {
	transport := newStubTransport(map[string]stubResponse{
		"tiktok-scraper7.p.rapidapi.com/": {status: http.StatusOK, body: `{"data":{"title":"dance","play_count":1000,"digg_count":50,"comment_count":2,"cover":"https://c/1.jpg"}}`},
	})
	e, err := New(context.Background(), newStubClient(transport), Config{
		Scraper: ScraperConfig{Key: "scraper-key"},
	})
	require.NoError(t, err)

	result := e.Extract(context.Background(), "https://www.tiktok.com/@user/video/7312345678901234567")

	require.True(t, result.OK())
	assert.Equal(t, entity.Metrics{Title: "dance", Views: 1000, Likes: 50, Comments: 2, ThumbnailURL: "https://c/1.jpg"}, result.Metrics)
	assert.Equal(t, 1, transport.total())
}

func TestParseTikTokPage_KeyVariants(t *testing.T) {
	m := parseTikTokPage(`{"play_count":900,"digg_count":40,"comment_count":3}`)
	assert.Equal(t, int64(900), m.Views)
	assert.Equal(t, int64(40), m.Likes)
	assert.Equal(t, int64(3), m.Comments)
}

func TestExtract_TelegramWidget(t *testing.T) {
	widget := `<div class="tgme_widget_message_text js-message_text" dir="auto">Новый ролик <b>уже</b> здесь</div>
<span class="tgme_reaction"><i class="emoji"><b>👍</b></i>12</span><span class="tgme_reaction"><i class="emoji"><b>🔥</b></i>1.1K</span>
<span class="tgme_widget_message_views">15.3K</span>`
	transport := newStubTransport(map[string]stubResponse{
		"t.me/mychannel/42": {status: http.StatusOK, body: widget},
	})
	e, err := New(context.Background(), newStubClient(transport), Config{})
	require.NoError(t, err)

	result := e.Extract(context.Background(), "https://t.me/mychannel/42")

	require.True(t, result.OK())
	assert.Equal(t, int64(15300), result.Metrics.Views)
	assert.Equal(t, int64(1112), result.Metrics.Likes)
	assert.Equal(t, "Новый ролик уже здесь", result.Metrics.Title)
}

func TestExtract_PlatformsWithoutStrategies(t *testing.T) {
	transport := newStubTransport(nil)
	e, err := New(context.Background(), newStubClient(transport), Config{})
	require.NoError(t, err)

	for _, u := range []string{
		"https://www.threads.net/@user/post/C1",
		"https://vk.com/video-1_2",
		"https://likee.video/@user/video/1",
		"https://example.com/video.mp4",
	} {
		result := e.Extract(context.Background(), u)
		assert.False(t, result.OK(), u)
		assert.True(t, result.Metrics.IsZero(), u)
	}
	assert.Equal(t, 0, transport.total())
}

func TestIdentifiers(t *testing.T) {
	assert.Equal(t, "dQw4w9WgXcQ", YouTubeVideoID("https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ"))
	assert.Equal(t, "dQw4w9WgXcQ", YouTubeVideoID("https://youtube.com/shorts/dQw4w9WgXcQ?si=abc"))
	assert.Empty(t, YouTubeVideoID("https://www.youtube.com/@channel"))
	assert.Equal(t, "7312345678901234567", TikTokVideoID("https://www.tiktok.com/@u/video/7312345678901234567?lang=en"))
	assert.Empty(t, TikTokVideoID("https://vm.tiktok.com/ZMabc/"))
	assert.Equal(t, "Cabc123", InstagramShortcode("https://www.instagram.com/reels/Cabc123/"))
	assert.Equal(t, "Cabc123", InstagramShortcode("https://instagram.com/tv/Cabc123"))
	assert.Empty(t, InstagramShortcode("https://instagram.com/user"))
}
