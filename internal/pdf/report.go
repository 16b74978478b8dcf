package pdf

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/playwright-community/playwright-go"
)

//go:embed templates/report.html
var reportTemplate string

// Report is one session's analyses. Empty sections are left out.
type Report struct {
	Summary     string
	Strengths   string
	Weaknesses  string
	JobTitles   string
	GeneratedAt time.Time
}

type section struct {
	Heading string
	Body    string
}

func (r Report) sections() []section {
	all := []section{
		{"Summary", r.Summary},
		{"Strengths", r.Strengths},
		{"Weaknesses & Suggestions", r.Weaknesses},
		{"Suggested Job Titles", r.JobTitles},
	}
	out := all[:0]
	for _, s := range all {
		if s.Body != "" {
			out = append(out, s)
		}
	}
	return out
}

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

// RenderHTML executes the report template.
func RenderHTML(r Report) (string, error) {
	data := struct {
		GeneratedAt string
		Sections    []section
	}{
		GeneratedAt: r.GeneratedAt.Format("2006-01-02 15:04"),
		Sections:    r.sections(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// ReportGenerator renders reports to PDF with a headless Chromium.
type ReportGenerator struct {
	execPath string
}

func NewReportGenerator(execPath string) *ReportGenerator {
	return &ReportGenerator{execPath: execPath}
}

// Generate renders r as an A4 PDF.
func (g *ReportGenerator) Generate(ctx context.Context, r Report) ([]byte, error) {
	htmlContent, err := RenderHTML(r)
	if err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	launchOpts := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(true)}
	if g.execPath != "" {
		launchOpts.ExecutablePath = playwright.String(g.execPath)
	}
	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	defer browser.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(htmlContent, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("16mm"),
			Bottom: playwright.String("16mm"),
			Left:   playwright.String("14mm"),
			Right:  playwright.String("14mm"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return pdfBytes, nil
}
