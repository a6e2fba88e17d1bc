package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"rssreader/internal/config"
	"rssreader/internal/domain"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	maxRedirects   = 10
	maxSnippetSize = 512
)

// HTTPFetcher загружает RSS-ленты по HTTP(S) в локальный файл.
// Разрешены только схемы http и https, в том числе при редиректах.
type HTTPFetcher struct {
	client   *resty.Client
	log      *slog.Logger
	maxBytes int64
}

// NewHTTPFetcher создает HTTPFetcher на основе resty-клиента с таймаутом,
// User-Agent и политикой редиректов из конфигурации.
func NewHTTPFetcher(cfg config.FetchConfig, log *slog.Logger) *HTTPFetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.1").
		SetRedirectPolicy(
			resty.FlexibleRedirectPolicy(maxRedirects),
			resty.RedirectPolicyFunc(func(req *http.Request, _ []*http.Request) error {
				if !allowedScheme(req.URL.Scheme) {
					return fmt.Errorf("redirect to unsupported protocol %q", req.URL.Scheme)
				}
				return nil
			}),
		)
	return &HTTPFetcher{
		client:   client,
		log:      log.With(slog.String("component", "fetcher")),
		maxBytes: cfg.MaxBytes,
	}
}

// Download выполняет GET-запрос по rawURL и записывает тело ответа в файл dest.
// URL без схемы дополняется https://. Файл открыт только на время загрузки;
// при любой ошибке частично записанный файл удаляется.
// Возвращает количество записанных байт.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL, dest string) (int64, error) {
	const op = "fetcher.Download"
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return 0, err
	}
	log := f.log.With(slog.String("op", op), slog.String("url", target))

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to open %q: %v", domain.ErrRetrieval, dest, err)
	}
	n, err := f.fetchTo(ctx, target, out)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: failed to write %q: %v", domain.ErrRetrieval, dest, closeErr)
	}
	if err != nil {
		if rmErr := os.Remove(dest); rmErr != nil {
			log.Warn("Failed to remove partial download", slog.String("path", dest), slog.Any("error", rmErr))
		}
		return 0, err
	}
	log.Info("Feed downloaded", slog.String("path", dest), slog.Int64("bytes", n))
	return n, nil
}

func (f *HTTPFetcher) fetchTo(ctx context.Context, target string, w io.Writer) (int64, error) {
	log := f.log.With(slog.String("url", target))
	log.Debug("Fetching URL")
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(target)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to download %s: %v", domain.ErrRetrieval, target, unwrapURLError(err))
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		snippet, _ := io.ReadAll(io.LimitReader(body, maxSnippetSize))
		log.Debug("Unexpected status code",
			slog.Int("status_code", resp.StatusCode()),
			slog.String("body", responseSnippet(snippet)),
		)
		return 0, fmt.Errorf("%w: unexpected status code: %d for url %s", domain.ErrRetrieval, resp.StatusCode(), target)
	}

	n, err := io.Copy(w, io.LimitReader(body, f.maxBytes+1))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read response from %s: %v", domain.ErrRetrieval, target, err)
	}
	if n > f.maxBytes {
		return 0, fmt.Errorf("%w: response from %s exceeds %d bytes", domain.ErrAllocation, target, f.maxBytes)
	}
	return n, nil
}

// NormalizeURL дополняет URL без схемы схемой https и проверяет,
// что схема - http или https, а хост задан.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: empty url", domain.ErrRetrieval)
	}
	if !hasScheme(rawURL) {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url %q: %v", domain.ErrRetrieval, rawURL, err)
	}
	if !allowedScheme(u.Scheme) {
		return "", fmt.Errorf("%w: unsupported protocol %q", domain.ErrRetrieval, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: url %q has no host", domain.ErrRetrieval, rawURL)
	}
	return u.String(), nil
}

// hasScheme ищет "://" только до первого '/', '?' или '#', чтобы URL
// в строке запроса не принимался за схему.
func hasScheme(rawURL string) bool {
	i := strings.Index(rawURL, "://")
	return i > 0 && !strings.ContainsAny(rawURL[:i], "/?#")
}

func allowedScheme(scheme string) bool {
	return strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https")
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func responseSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "<empty>"
	}
	if len(s) >= maxSnippetSize {
		return s[:maxSnippetSize] + "..."
	}
	return s
}
