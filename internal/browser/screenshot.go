package browser

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// ScreenshotDebugger saves full-page screenshots when a page misbehaves.
// A nil *ScreenshotDebugger is valid and captures nothing.
type ScreenshotDebugger struct {
	outputDir string
}

func NewScreenshotDebugger(dir string) *ScreenshotDebugger {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Failed to create screenshot directory: %v", err)
		return nil
	}
	return &ScreenshotDebugger{outputDir: dir}
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// CaptureAndLog writes a screenshot named after name and returns its path.
func (s *ScreenshotDebugger) CaptureAndLog(ctx context.Context, page Page, name, message string) (string, error) {
	if s == nil || page == nil {
		return "", nil
	}
	log.Printf("📸 %s", message)

	buf, err := page.Screenshot(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return "", err
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", unsafeName.ReplaceAllString(name, "-"), timestamp)
	path := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(path, buf, 0644); err != nil {
		log.Printf("⚠️ Failed to write screenshot: %v", err)
		return "", err
	}

	log.Printf("   Screenshot saved: %s", path)
	return path, nil
}
