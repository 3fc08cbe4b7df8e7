package input

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// urlPattern is a permissive http(s) URL matcher. Malformed IPv6 hosts and embedded
// whitespace may be misclassified.
var urlPattern = regexp.MustCompile(`(?i)^(?:http|https)://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.)` +
	`|localhost` +
	`|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}` +
	`|\[?[A-F0-9]*:[A-F0-9:%.{1,}\[\\]?\]+)` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// IsURL reports whether s should be fetched instead of being used as literal text.
func IsURL(s string) bool {
	return urlPattern.MatchString(s)
}

// Fetcher downloads and renders remote job descriptions and resumes.
type Fetcher interface {
	GetJobDescription(ctx context.Context, url string) (string, error)
	GetCandidateInfo(ctx context.Context, url string) (string, error)
}

// Resolver turns raw user input into text: URLs are fetched, anything else is kept as is.
type Resolver struct {
	fetcher Fetcher
	logger  *zap.Logger
}

func NewResolver(fetcher Fetcher, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{fetcher: fetcher, logger: logger}
}

func (r *Resolver) JobDescription(ctx context.Context, raw string) (string, error) {
	return r.resolve(ctx, raw, "job description", r.fetcher.GetJobDescription)
}

func (r *Resolver) CandidateInfo(ctx context.Context, raw string) (string, error) {
	return r.resolve(ctx, raw, "cv", r.fetcher.GetCandidateInfo)
}

func (r *Resolver) resolve(ctx context.Context, raw, kind string, fetch func(context.Context, string) (string, error)) (string, error) {
	text := strings.TrimSpace(raw)
	if !IsURL(text) {
		return text, nil
	}

	r.logger.Info("fetching "+kind, zap.String("url", text))

	fetched, err := fetch(ctx, text)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(fetched), nil
}
