package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"mo-legislators/internal/config"
	"mo-legislators/internal/observability"
)

// RodFetcher получает страницы через headless Chrome. Нужен, когда сайт отдаёт
// таблицы только после выполнения скриптов (ASP.NET-гриды палаты).
type RodFetcher struct {
	cfg         *config.Config
	logger      *observability.Logger
	rateLimiter *RateLimiter

	once    sync.Once
	browser *rod.Browser
	initErr error
}

func NewRodFetcher(cfg *config.Config, logger *observability.Logger) *RodFetcher {
	return &RodFetcher{
		cfg:         cfg,
		logger:      logger,
		rateLimiter: NewRateLimiter(cfg.RateLimit.RPM, cfg.RateLimit.Burst),
	}
}

// connect запускает браузер при первом обращении
func (r *RodFetcher) connect() error {
	r.once.Do(func() {
		l := launcher.New().Headless(true)
		if r.cfg.Rod.ChromePath != "" {
			l = l.Bin(r.cfg.Rod.ChromePath)
		}

		controlURL, err := l.Launch()
		if err != nil {
			r.initErr = fmt.Errorf("failed to launch chrome: %w", err)
			return
		}

		browser := rod.New().ControlURL(controlURL)
		if err := browser.Connect(); err != nil {
			r.initErr = fmt.Errorf("failed to connect to chrome: %w", err)
			return
		}
		r.browser = browser
		r.logger.Info("Headless browser started", "control_url", controlURL)
	})
	return r.initErr
}

func (r *RodFetcher) Fetch(ctx context.Context, urlStr string) (*FetchResponse, error) {
	if err := r.connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	host, err := hostOf(urlStr)
	if err != nil {
		return nil, err
	}
	if err := r.rateLimiter.Wait(ctx, host); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("%w: open tab: %v", ErrTransport, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			r.logger.Warn("Failed to close browser tab", "url", urlStr, "error", err.Error())
		}
	}()

	page = page.Context(ctx).Timeout(r.cfg.GetRodPageTimeout())

	if err := page.Navigate(urlStr); err != nil {
		return nil, fmt.Errorf("%w: navigate %s: %v", ErrTransport, urlStr, err)
	}
	if err := page.Timeout(r.cfg.GetRodWaitLoadTimeout()).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: wait load %s: %v", ErrTransport, urlStr, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("%w: read HTML %s: %v", ErrTransport, urlStr, err)
	}

	r.logger.Debug("Page rendered", "url", urlStr, "bytes", len(html))

	return &FetchResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(html),
		URL:        urlStr,
	}, nil
}

func (r *RodFetcher) Close() error {
	if r.browser == nil {
		return nil
	}
	return r.browser.Close()
}
