package headhunter

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

var vacancyPath = regexp.MustCompile(`/vacancy/(\d+)`)

// Vacancy mirrors the fields of the hh.ru vacancy API object used for scoring.
// Pages parsed from HTML fill the same structure.
type Vacancy struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Area struct {
		Name string `json:"name,omitempty"`
	} `json:"area,omitempty"`
	Salary struct {
		From     int    `json:"from,omitempty"`
		To       int    `json:"to,omitempty"`
		Currency string `json:"currency,omitempty"`
		Gross    bool   `json:"gross,omitempty"`
	} `json:"salary,omitempty"`
	Experience struct {
		Name string `json:"name,omitempty"`
	} `json:"experience,omitempty"`
	Schedule struct {
		Name string `json:"name,omitempty"`
	} `json:"schedule,omitempty"`
	Employment struct {
		Name string `json:"name,omitempty"`
	} `json:"employment,omitempty"`
	Employer struct {
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Description  string `json:"description,omitempty"`
	KeySkills    []struct {
		Name string `json:"name,omitempty"`
	} `json:"key_skills,omitempty"`

	// SalaryText holds the salary as printed on the page, when scraped.
	SalaryText string `json:"-"`
}

// VacancyIDFromURL extracts the numeric vacancy id from an hh.ru vacancy link.
func VacancyIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	m := vacancyPath.FindStringSubmatch(u.Path)
	if m == nil {
		return ""
	}

	return m[1]
}

// GetVacancy loads a vacancy from the public API. The description comes back as HTML
// and is converted to plain text.
func (c *Client) GetVacancy(ctx context.Context, id string) (*Vacancy, error) {
	if id == "" {
		return nil, fmt.Errorf("vacancy id is required")
	}

	apiURL := fmt.Sprintf("%s/vacancies/%s", c.APIURL, id)

	var raw map[string]any
	if err := c.getJSON(ctx, apiURL, &raw); err != nil {
		return nil, err
	}

	var vacancy Vacancy
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &vacancy,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode vacancy %s: %w", id, err)
	}

	if vacancy.Name == "" {
		return nil, fmt.Errorf("vacancy %s: %w", id, ErrUnrecognizedPage)
	}

	text, err := htmlToText(vacancy.Description)
	if err != nil {
		return nil, err
	}
	vacancy.Description = text

	return &vacancy, nil
}

// GetVacancyByURL resolves a vacancy link, preferring the API when the link carries an id.
func (c *Client) GetVacancyByURL(ctx context.Context, link string) (*Vacancy, error) {
	if c.UseAPI {
		if id := VacancyIDFromURL(link); id != "" {
			vacancy, err := c.GetVacancy(ctx, id)
			if err == nil {
				return vacancy, nil
			}

			c.logger.Debug("vacancy api lookup failed, falling back to page",
				zap.String("id", id),
				zap.Error(err),
			)
		}
	}

	doc, err := c.getPage(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("fetch vacancy page: %w", err)
	}

	vacancy, err := parseVacancyPage(doc)
	if err != nil {
		return nil, err
	}
	vacancy.AlternateURL = link

	return vacancy, nil
}

func parseVacancyPage(doc *goquery.Document) (*Vacancy, error) {
	v := &Vacancy{}

	v.Name = inlineText(doc.Find(`[data-qa="vacancy-title"]`).First())
	v.Description = blockText(doc.Find(`[data-qa="vacancy-description"]`).First())
	if v.Name == "" || v.Description == "" {
		return nil, ErrUnrecognizedPage
	}

	v.Employer.Name = inlineText(doc.Find(`[data-qa="vacancy-company-name"]`).First())
	v.SalaryText = inlineText(doc.Find(`[data-qa="vacancy-salary"]`).First())
	v.Experience.Name = inlineText(doc.Find(`[data-qa="vacancy-experience"]`).First())
	v.Employment.Name = inlineText(doc.Find(`[data-qa="vacancy-view-employment-mode"]`).First())
	v.Area.Name = inlineText(doc.Find(`[data-qa="vacancy-view-location"], [data-qa="vacancy-view-raw-address"]`).First())

	skills := doc.Find(`[data-qa="skills-element"]`)
	if skills.Length() == 0 {
		skills = doc.Find(`[data-qa="bloko-tag__text"]`)
	}
	skills.Each(func(_ int, s *goquery.Selection) {
		if name := inlineText(s); name != "" {
			v.KeySkills = append(v.KeySkills, struct {
				Name string `json:"name,omitempty"`
			}{Name: name})
		}
	})

	return v, nil
}

func (v *Vacancy) SkillNames() []string {
	names := make([]string, 0, len(v.KeySkills))
	for _, s := range v.KeySkills {
		names = append(names, s.Name)
	}

	return names
}

// SalaryString formats the salary range. Scraped text wins over API numbers.
func (v *Vacancy) SalaryString() string {
	if v.SalaryText != "" {
		return v.SalaryText
	}

	s := v.Salary
	var parts []string
	if s.From > 0 {
		parts = append(parts, fmt.Sprintf("от %d", s.From))
	}
	if s.To > 0 {
		parts = append(parts, fmt.Sprintf("до %d", s.To))
	}
	if len(parts) == 0 {
		return ""
	}
	if s.Currency != "" {
		parts = append(parts, s.Currency)
	}
	if s.Gross {
		parts = append(parts, "до вычета налогов")
	} else {
		parts = append(parts, "на руки")
	}

	return strings.Join(parts, " ")
}

// Markdown renders the vacancy as the job description text sent to the model.
func (v *Vacancy) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", v.Name)
	writeField(&b, "Компания", v.Employer.Name)
	writeField(&b, "Зарплата", v.SalaryString())
	writeField(&b, "Требуемый опыт", v.Experience.Name)
	writeField(&b, "Занятость", v.Employment.Name)
	writeField(&b, "График", v.Schedule.Name)
	writeField(&b, "Город", v.Area.Name)
	writeField(&b, "Ключевые навыки", strings.Join(v.SkillNames(), ", "))

	if v.Description != "" {
		fmt.Fprintf(&b, "\n## Описание\n\n%s\n", v.Description)
	}

	return strings.TrimSpace(b.String())
}
