// Package analyzer runs the resume analyses: a summary from the uploaded PDF,
// then strengths, weaknesses and job titles derived from that summary.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"go-resume-analyzer/internal/ai"
	"go-resume-analyzer/internal/pdf"
	"go-resume-analyzer/internal/session"
)

var (
	// ErrMissingInput means the resume file or the API key was not given.
	ErrMissingInput = errors.New("please upload a resume and enter an API key")
	// ErrNoResume means a follow-up analysis ran before any summary.
	ErrNoResume = errors.New("please upload a resume in the summary tab first")
)

// TextExtractor reads the text layer of a PDF.
type TextExtractor func(r io.ReaderAt, size int64) (string, error)

type Analyzer struct {
	newClient ai.Factory
	extract   TextExtractor
}

func New(factory ai.Factory, extract TextExtractor) *Analyzer {
	if extract == nil {
		extract = pdf.ExtractText
	}
	return &Analyzer{newClient: factory, extract: extract}
}

// Summarize extracts the resume text, asks for a summary and caches both on
// the session together with the key.
func (a *Analyzer) Summarize(ctx context.Context, sess *session.Context, r io.ReaderAt, size int64, apiKey string) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if r == nil || size <= 0 || apiKey == "" {
		return "", ErrMissingInput
	}

	text, err := a.extract(r, size)
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}

	summary, err := a.generate(ctx, apiKey, ai.SummaryPrompt(text), text)
	if err != nil {
		return "", err
	}
	sess.SetResume(apiKey, text, summary)
	log.Printf("📝 Session %s: summarized resume (%d chars)", sess.ID, len(text))
	return summary, nil
}

func (a *Analyzer) Strengths(ctx context.Context, sess *session.Context) (string, error) {
	return a.followUp(ctx, sess, ai.StrengthsPrompt, sess.SetStrengths)
}

func (a *Analyzer) Weaknesses(ctx context.Context, sess *session.Context) (string, error) {
	return a.followUp(ctx, sess, ai.WeaknessesPrompt, sess.SetWeaknesses)
}

func (a *Analyzer) JobTitles(ctx context.Context, sess *session.Context) (string, error) {
	return a.followUp(ctx, sess, ai.JobTitlesPrompt, sess.SetJobTitles)
}

// Report collects what the session has analyzed so far.
func Report(sess *session.Context) (pdf.Report, error) {
	snap := sess.Snapshot()
	if !snap.HasResume() {
		return pdf.Report{}, ErrNoResume
	}
	return pdf.Report{
		Summary:    snap.Summary,
		Strengths:  snap.Strengths,
		Weaknesses: snap.Weaknesses,
		JobTitles:  snap.JobTitles,
	}, nil
}

func (a *Analyzer) followUp(ctx context.Context, sess *session.Context, prompt func(string) string, store func(string)) (string, error) {
	snap := sess.Snapshot()
	if !snap.HasResume() {
		return "", ErrNoResume
	}

	out, err := a.generate(ctx, snap.APIKey, prompt(snap.Summary), snap.ResumeText)
	if err != nil {
		return "", err
	}
	store(out)
	return out, nil
}

func (a *Analyzer) generate(ctx context.Context, apiKey, prompt, resume string) (string, error) {
	client, err := a.newClient(ctx, apiKey)
	if err != nil {
		return "", err
	}
	return client.Generate(ctx, ai.WithResume(prompt, resume))
}
