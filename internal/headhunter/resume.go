package headhunter

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Resume is the public part of an hh.ru resume page.
type Resume struct {
	Name      string
	Gender    string
	Age       string
	Address   string
	Title     string
	Salary    string
	Status    string
	Skills    []string
	About     string
	Jobs      []Job
	Education []Education
	URL       string
}

type Job struct {
	Period      string
	Company     string
	Position    string
	Description string
}

type Education struct {
	Year         string
	Name         string
	Organization string
}

// GetResumeByURL downloads and parses a public resume page.
func (c *Client) GetResumeByURL(ctx context.Context, link string) (*Resume, error) {
	doc, err := c.getPage(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("fetch resume page: %w", err)
	}

	resume, err := parseResumePage(doc)
	if err != nil {
		return nil, err
	}
	resume.URL = link

	return resume, nil
}

func parseResumePage(doc *goquery.Document) (*Resume, error) {
	r := &Resume{}

	r.Name = inlineText(doc.Find(`[data-qa="resume-personal-name"]`).First())
	if r.Name == "" {
		r.Name = inlineText(doc.Find(`h2[data-qa="bloko-header-1"]`).First())
	}
	r.Gender = inlineText(doc.Find(`[data-qa="resume-personal-gender"]`).First())
	r.Age = inlineText(doc.Find(`[data-qa="resume-personal-age"]`).First())
	r.Address = inlineText(doc.Find(`[data-qa="resume-personal-address"]`).First())
	r.Title = inlineText(doc.Find(`[data-qa="resume-block-title-position"]`).First())
	r.Salary = inlineText(doc.Find(`[data-qa="resume-block-salary"]`).First())
	r.Status = inlineText(doc.Find(`[data-qa="job-search-status"]`).First())
	r.About = blockText(doc.Find(`[data-qa="resume-block-skills-content"]`).First())

	doc.Find(`[data-qa="skills-table"] [data-qa="bloko-tag__text"]`).Each(func(_ int, s *goquery.Selection) {
		if skill := inlineText(s); skill != "" {
			r.Skills = append(r.Skills, skill)
		}
	})

	doc.Find(`[data-qa="resume-block-experience"] .resume-block-item-gap`).Each(func(_ int, s *goquery.Selection) {
		position := s.Find(`[data-qa="resume-block-experience-position"]`)
		if position.Length() == 0 {
			return
		}

		r.Jobs = append(r.Jobs, Job{
			Period:      inlineText(s.Find(".bloko-column_s-2").First()),
			Company:     inlineText(s.Find(".bloko-text_strong").First()),
			Position:    inlineText(position.First()),
			Description: blockText(s.Find(`[data-qa="resume-block-responsibilities"]`).First()),
		})
	})

	doc.Find(`[data-qa="resume-block-education"] .resume-block-item-gap`).Each(func(_ int, s *goquery.Selection) {
		name := s.Find(`[data-qa="resume-block-education-name"]`)
		if name.Length() == 0 {
			return
		}

		r.Education = append(r.Education, Education{
			Year:         inlineText(s.Find(".bloko-column_s-2").First()),
			Name:         inlineText(name.First()),
			Organization: inlineText(s.Find(`[data-qa="resume-block-education-organization"]`).First()),
		})
	})

	if r.Title == "" && len(r.Jobs) == 0 {
		return nil, ErrUnrecognizedPage
	}

	return r, nil
}

// Markdown renders the resume as the candidate text sent to the model.
func (r *Resume) Markdown() string {
	var b strings.Builder

	name := r.Name
	if name == "" {
		name = "Резюме"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	personal := joinNonEmpty(", ", r.Gender, r.Age)
	if personal != "" {
		fmt.Fprintf(&b, "%s\n", personal)
	}
	writeField(&b, "Местоположение", r.Address)
	writeField(&b, "Желаемая должность", r.Title)
	writeField(&b, "Зарплата", r.Salary)
	writeField(&b, "Статус поиска", r.Status)

	if len(r.Jobs) > 0 {
		b.WriteString("\n## Опыт работы\n")
		for _, job := range r.Jobs {
			fmt.Fprintf(&b, "\n### %s\n", job.Position)
			if meta := joinNonEmpty(" | ", job.Company, job.Period); meta != "" {
				fmt.Fprintf(&b, "%s\n", meta)
			}
			if job.Description != "" {
				fmt.Fprintf(&b, "\n%s\n", job.Description)
			}
		}
	}

	if len(r.Skills) > 0 {
		fmt.Fprintf(&b, "\n## Ключевые навыки\n\n%s\n", strings.Join(r.Skills, ", "))
	}

	if r.About != "" {
		fmt.Fprintf(&b, "\n## Обо мне\n\n%s\n", r.About)
	}

	if len(r.Education) > 0 {
		b.WriteString("\n## Образование\n\n")
		for _, e := range r.Education {
			fmt.Fprintf(&b, "- %s\n", joinNonEmpty(", ", e.Year, e.Name, e.Organization))
		}
	}

	return strings.TrimSpace(b.String())
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}

	return strings.Join(parts, sep)
}
