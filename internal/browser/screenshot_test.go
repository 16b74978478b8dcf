package browser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shotPage struct {
	png []byte
	err error
}

func (p *shotPage) Goto(context.Context, string, time.Duration) error        { return nil }
func (p *shotPage) WaitVisible(context.Context, string, time.Duration) error { return nil }
func (p *shotPage) ScrollToBottom(context.Context) error                     { return nil }
func (p *shotPage) Click(context.Context, string) (bool, error)              { return false, nil }
func (p *shotPage) HTML(context.Context, string) (string, error)             { return "", ErrNotFound }
func (p *shotPage) Content(context.Context) (string, error)                  { return "", nil }
func (p *shotPage) Screenshot(context.Context) ([]byte, error)               { return p.png, p.err }
func (p *shotPage) Close() error                                             { return nil }

func TestScreenshotDebuggerWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	d := NewScreenshotDebugger(dir)
	require.NotNil(t, d)

	path, err := d.CaptureAndLog(context.Background(), &shotPage{png: []byte("png")}, "linkedin search/1", "boom")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "linkedin-search-1_"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestScreenshotDebuggerNilIsNoop(t *testing.T) {
	d := NewScreenshotDebugger("")
	assert.Nil(t, d)

	path, err := d.CaptureAndLog(context.Background(), &shotPage{}, "x", "y")
	assert.NoError(t, err)
	assert.Empty(t, path)
}

func TestScreenshotDebuggerCaptureError(t *testing.T) {
	d := NewScreenshotDebugger(t.TempDir())
	boom := errors.New("target crashed")

	_, err := d.CaptureAndLog(context.Background(), &shotPage{err: boom}, "x", "y")
	assert.ErrorIs(t, err, boom)
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
