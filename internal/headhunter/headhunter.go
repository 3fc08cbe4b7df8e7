package headhunter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL = "https://api.hh.ru"
	// hh.ru serves a stripped page (or a captcha) to non-browser agents.
	pageUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	apiUserAgent  = "cv-scoring/1.0 (cv-scoring@users.noreply.github.com)"

	defaultTimeout = 15 * time.Second
)

// ErrUnrecognizedPage is returned when a fetched page does not look like a vacancy
// or a resume.
var ErrUnrecognizedPage = errors.New("unrecognized page structure")

// Client fetches vacancies and resumes from hh.ru and renders them as markdown text.
type Client struct {
	logger       *zap.Logger
	HTTPClient   *http.Client
	UserAgent    string
	APIUserAgent string
	APIURL       string
	// UseAPI makes GetJobDescription try the public vacancies API before scraping.
	UseAPI bool
}

func New(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		UserAgent:    pageUserAgent,
		APIUserAgent: apiUserAgent,
		APIURL:       apiURL,
		UseAPI:       true,
	}
}

// GetJobDescription returns the vacancy behind url as markdown.
func (c *Client) GetJobDescription(ctx context.Context, url string) (string, error) {
	vacancy, err := c.GetVacancyByURL(ctx, url)
	if err != nil {
		return "", err
	}

	return vacancy.Markdown(), nil
}

// GetCandidateInfo returns the resume behind url as markdown.
func (c *Client) GetCandidateInfo(ctx context.Context, url string) (string, error) {
	resume, err := c.GetResumeByURL(ctx, url)
	if err != nil {
		return "", err
	}

	return resume.Markdown(), nil
}
