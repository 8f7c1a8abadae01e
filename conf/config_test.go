package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/dxfwin/anchor"
	"github.com/zooyer/dxfwin/errors"
	"github.com/zooyer/dxfwin/loop"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dxfwin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	settings, err := Unmarshal(NewViper())
	require.NoError(t, err)

	assert.Equal(t, 1.0, settings.Extraction.ScaleFactor)
	assert.Equal(t, 2000, settings.Extraction.BatchSize)
	assert.Equal(t, 10, settings.Extraction.MaxDepth)
	assert.Equal(t, float64(loop.DefaultWallAreaThreshold), settings.Loops.WallAreaThreshold)
	assert.Equal(t, "csv", settings.Output.Format)

	pattern, err := settings.WindowPattern()
	require.NoError(t, err)
	assert.Equal(t, anchor.DefaultWindowPattern, pattern)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
extraction:
  scale_factor: 0.5
identification:
  standard: flexible
  door_pattern: ""
estimate:
  profile_frame_width: 45
`)

	settings, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, settings.Extraction.ScaleFactor)
	assert.Equal(t, 45.0, settings.Estimate.ProfileFrameWidth)

	cfg, err := settings.PipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, `C\d+`, cfg.Anchor.Window.String())
	assert.Nil(t, cfg.Anchor.Door)
	assert.Equal(t, 0.5, cfg.ScaleFactor)
	assert.Equal(t, 45.0, cfg.Estimator.ProfileFrameWidth)
	assert.Equal(t, 1000.0, cfg.Estimator.LengthUnit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfiguration))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("DXFWIN_EXTRACTION_SCALE_FACTOR", "2.5")
	t.Setenv("DXFWIN_IDENTIFICATION_PATTERN", `W\d{3}`)

	settings, err := Unmarshal(NewViper())
	require.NoError(t, err)

	assert.Equal(t, 2.5, settings.Extraction.ScaleFactor)
	pattern, err := settings.WindowPattern()
	require.NoError(t, err)
	assert.Equal(t, `W\d{3}`, pattern)
}

func TestValidationAggregates(t *testing.T) {
	v := NewViper()
	v.Set("extraction.scale_factor", 0)
	v.Set("estimate.profile_frame_width", -1)
	v.Set("identification.pattern", `C\d{4`)
	v.Set("output.format", "pdf")

	_, err := Unmarshal(v)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Errors, 4)
}

func TestUnknownStandard(t *testing.T) {
	v := NewViper()
	v.Set("identification.standard", "strict")

	_, err := Unmarshal(v)
	require.Error(t, err)
}

func TestPipelineConfigInvalidPattern(t *testing.T) {
	settings, err := Unmarshal(NewViper())
	require.NoError(t, err)

	settings.Identification.Pattern = "("
	_, err = settings.PipelineConfig()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfiguration))
}
