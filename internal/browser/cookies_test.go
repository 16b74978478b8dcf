package browser

import (
	"os"
	"path/filepath"
	"testing"

	"go-resume-analyzer/internal/config"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookiesMissingFile(t *testing.T) {
	cookies, err := LoadCookies(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, cookies)
}

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	data := `[{"name":"li_at","value":"abc","domain":".linkedin.com","path":"/","expires":1893456000,"httpOnly":true,"secure":true,"sameSite":"no_restriction"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cookies, err := LoadCookies(path)

	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, Cookie{
		Name: "li_at", Value: "abc", Domain: ".linkedin.com", Path: "/",
		Expires: 1893456000, HTTPOnly: true, Secure: true, SameSite: "no_restriction",
	}, cookies[0])
}

func TestLoadCookiesInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadCookies(path)
	assert.Error(t, err)
}

func TestCookieToPlaywright(t *testing.T) {
	c := Cookie{Name: "JSESSIONID", Value: "x", Domain: "www.linkedin.com", Expires: 10, Secure: true, SameSite: "Lax"}

	got := c.ToPlaywright()

	assert.Equal(t, "JSESSIONID", got.Name)
	assert.Equal(t, "www.linkedin.com", *got.Domain)
	assert.Equal(t, "/", *got.Path)
	assert.Equal(t, 10.0, *got.Expires)
	assert.Nil(t, got.HttpOnly)
	assert.True(t, *got.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, got.SameSite)
}

func TestOptionsFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"a","value":"b","domain":".linkedin.com"}]`), 0644))

	opts, err := OptionsFromConfig(config.BrowserConfig{Driver: "chromedp", Headless: true, CookiesPath: path})

	require.NoError(t, err)
	assert.Equal(t, "chromedp", opts.Driver)
	assert.True(t, opts.Headless)
	require.Len(t, opts.Cookies, 1)

	_, err = NewLauncher(opts)
	assert.NoError(t, err)
	_, err = NewLauncher(Options{Driver: "selenium"})
	assert.Error(t, err)
}
