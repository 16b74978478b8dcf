package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"go-resume-analyzer/internal/ai"
	"go-resume-analyzer/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	prompts []string
	answer  string
	err     error
}

func (c *fakeClient) Generate(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.answer, nil
}

func setup(client *fakeClient) (*Analyzer, *[]string) {
	var keys []string
	factory := func(_ context.Context, key string) (ai.Client, error) {
		keys = append(keys, key)
		return client, nil
	}
	extract := func(r io.ReaderAt, size int64) (string, error) {
		buf := make([]byte, size)
		if _, err := r.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return "TEXT:" + string(buf), nil
	}
	return New(factory, extract), &keys
}

func TestSummarizeCachesResumeAndSummary(t *testing.T) {
	client := &fakeClient{answer: "A backend engineer."}
	a, keys := setup(client)
	sess := session.NewStore(0).Create()
	file := strings.NewReader("resume bytes")

	summary, err := a.Summarize(context.Background(), sess, file, file.Size(), " key-1 ")

	require.NoError(t, err)
	assert.Equal(t, "A backend engineer.", summary)
	assert.Equal(t, []string{"key-1"}, *keys)
	require.Len(t, client.prompts, 1)
	assert.Equal(t, ai.WithResume(ai.SummaryPrompt("TEXT:resume bytes"), "TEXT:resume bytes"), client.prompts[0])

	snap := sess.Snapshot()
	assert.Equal(t, "TEXT:resume bytes", snap.ResumeText)
	assert.Equal(t, "A backend engineer.", snap.Summary)
	assert.Equal(t, "key-1", snap.APIKey)
}

func TestSummarizeRequiresFileAndKey(t *testing.T) {
	a, _ := setup(&fakeClient{})
	sess := session.NewStore(0).Create()
	file := strings.NewReader("x")

	_, err := a.Summarize(context.Background(), sess, file, file.Size(), "")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = a.Summarize(context.Background(), sess, nil, 0, "key")
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestSummarizeGenerationFailureLeavesSessionEmpty(t *testing.T) {
	a, _ := setup(&fakeClient{err: fmt.Errorf("%w: quota", ai.ErrGeneration)})
	sess := session.NewStore(0).Create()
	file := strings.NewReader("x")

	_, err := a.Summarize(context.Background(), sess, file, file.Size(), "key")

	assert.ErrorIs(t, err, ai.ErrGeneration)
	assert.False(t, sess.Snapshot().HasResume())
}

func TestFollowUpsUseSummaryAndResume(t *testing.T) {
	client := &fakeClient{}
	a, keys := setup(client)
	sess := session.NewStore(0).Create()
	sess.SetResume("key-2", "RESUME", "SUMMARY")

	tests := []struct {
		name   string
		run    func(context.Context, *session.Context) (string, error)
		prompt string
		cached func(session.Snapshot) string
	}{
		{"strengths", a.Strengths, ai.StrengthsPrompt("SUMMARY"), func(s session.Snapshot) string { return s.Strengths }},
		{"weaknesses", a.Weaknesses, ai.WeaknessesPrompt("SUMMARY"), func(s session.Snapshot) string { return s.Weaknesses }},
		{"job titles", a.JobTitles, ai.JobTitlesPrompt("SUMMARY"), func(s session.Snapshot) string { return s.JobTitles }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client.answer = tt.name + " answer"
			got, err := tt.run(context.Background(), sess)

			require.NoError(t, err)
			assert.Equal(t, tt.name+" answer", got)
			assert.Equal(t, ai.WithResume(tt.prompt, "RESUME"), client.prompts[len(client.prompts)-1])
			assert.Equal(t, got, tt.cached(sess.Snapshot()))
		})
	}
	for _, k := range *keys {
		assert.Equal(t, "key-2", k)
	}
}

func TestFollowUpWithoutSummary(t *testing.T) {
	client := &fakeClient{}
	a, _ := setup(client)
	sess := session.NewStore(0).Create()

	_, err := a.Strengths(context.Background(), sess)

	assert.ErrorIs(t, err, ErrNoResume)
	assert.Empty(t, client.prompts)
}

func TestReport(t *testing.T) {
	sess := session.NewStore(0).Create()
	_, err := Report(sess)
	assert.ErrorIs(t, err, ErrNoResume)

	sess.SetResume("k", "r", "s")
	sess.SetWeaknesses("w")
	r, err := Report(sess)
	require.NoError(t, err)
	assert.Equal(t, "s", r.Summary)
	assert.Equal(t, "w", r.Weaknesses)
	assert.Empty(t, r.Strengths)
}
