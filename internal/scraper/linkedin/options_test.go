package linkedin

import (
	"testing"
	"time"

	"go-resume-analyzer/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestOptionsFromDefaultConfigMatchDefaultOptions(t *testing.T) {
	got := OptionsFromConfig(config.Default().Search, nil)
	assert.Equal(t, DefaultOptions(), got)
}

func TestWithDefaultsRepairsZeroValues(t *testing.T) {
	o := Options{InitialBackoff: 3 * time.Second}.withDefaults()

	assert.Equal(t, DefaultBaseURL, o.BaseURL)
	assert.Equal(t, 1, o.MaxAttempts)
	assert.Equal(t, 3*time.Second, o.MaxBackoff)
	assert.Equal(t, 1, o.MaxRevealRounds)
	assert.Positive(t, o.NavigationTimeout)
}
