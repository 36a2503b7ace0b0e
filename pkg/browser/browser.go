// Package browser рендерит страницы в headless Chrome для площадок,
// которые отдают статическому запросу только стену логина.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/labstack/gommon/log"
)

const (
	// RenderTimeout - предел на запуск браузера, навигацию и съём DOM
	RenderTimeout = 20 * time.Second
	// SettleDelay - пауза после навигации, чтобы клиентский JS успел дорисовать счётчики
	SettleDelay = 3 * time.Second

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

type Config struct {
	ExecPath    string
	SettleDelay time.Duration
}

// Chrome запускает отдельный процесс браузера на каждый вызов Render
// и гарантированно закрывает его на любом пути выхода.
type Chrome struct {
	execPath string
	settle   time.Duration
}

func NewChrome(cfg Config) *Chrome {
	settle := cfg.SettleDelay
	if settle <= 0 {
		settle = SettleDelay
	}
	return &Chrome{
		execPath: cfg.ExecPath,
		settle:   settle,
	}
}

func (c *Chrome) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1280, 900),
		// stealth: скрываем navigator.webdriver и признаки автоматизации
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("lang", "en-US,en"),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}
	return opts
}

// Render открывает страницу и возвращает отрисованный HTML
func (c *Chrome) Render(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, RenderTimeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	blockHeavyResources(browserCtx)

	var html string
	err := chromedp.Run(browserCtx,
		fetch.Enable(),
		chromedp.Navigate(url),
		chromedp.Sleep(c.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

// blockHeavyResources отклоняет картинки, шрифты, стили и медиа: для счётчиков они не нужны
func blockHeavyResources(ctx context.Context) {
	chromedp.ListenTarget(ctx, func(ev any) {
		paused, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(ctx)
			if c == nil || c.Target == nil {
				return
			}
			executor := cdp.WithExecutor(ctx, c.Target)
			var err error
			switch paused.ResourceType {
			case network.ResourceTypeImage, network.ResourceTypeFont,
				network.ResourceTypeStylesheet, network.ResourceTypeMedia:
				err = fetch.FailRequest(paused.RequestID, network.ErrorReasonBlockedByClient).Do(executor)
			default:
				err = fetch.ContinueRequest(paused.RequestID).Do(executor)
			}
			if err != nil && ctx.Err() == nil {
				log.Debugf("browser: не удалось обработать запрос %s: %v", paused.Request.URL, err)
			}
		}()
	})
}
