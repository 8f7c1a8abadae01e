// Package conf loads dxfwin settings from yaml, environment and flags.
package conf

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zooyer/dxfwin/anchor"
	"github.com/zooyer/dxfwin/errors"
	"github.com/zooyer/dxfwin/estimate"
	"github.com/zooyer/dxfwin/feature"
	"github.com/zooyer/dxfwin/flatten"
	"github.com/zooyer/dxfwin/loop"
	"github.com/zooyer/dxfwin/pipeline"
)

// EnvPrefix is prepended to every environment override, e.g. DXFWIN_EXTRACTION_SCALE_FACTOR.
const EnvPrefix = "DXFWIN"

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

type ExtractionConfig struct {
	ScaleFactor     float64 `mapstructure:"scale_factor" yaml:"scale_factor"`
	BatchSize       int     `mapstructure:"batch_size" yaml:"batch_size"`
	MaxDepth        int     `mapstructure:"max_depth" yaml:"max_depth"`
	CircleSegments  int     `mapstructure:"circle_segments" yaml:"circle_segments"`
	ArcSegments     int     `mapstructure:"arc_segments" yaml:"arc_segments"`
	ReportUnlabeled bool    `mapstructure:"report_unlabeled" yaml:"report_unlabeled"`
}

// IdentificationConfig selects how opening labels are recognized.
// A non-empty Pattern overrides Standard and Prefix.
type IdentificationConfig struct {
	Standard     string  `mapstructure:"standard" yaml:"standard"` // standard, flexible or fuzzy
	Prefix       string  `mapstructure:"prefix" yaml:"prefix"`
	Pattern      string  `mapstructure:"pattern" yaml:"pattern"`
	DoorPattern  string  `mapstructure:"door_pattern" yaml:"door_pattern"`
	PositionGrid float64 `mapstructure:"position_grid" yaml:"position_grid"`
	AreaGrid     float64 `mapstructure:"area_grid" yaml:"area_grid"`
}

type LoopConfig struct {
	WallAreaThreshold float64 `mapstructure:"wall_area_threshold" yaml:"wall_area_threshold"`
	NoiseFloor        float64 `mapstructure:"noise_floor" yaml:"noise_floor"`
	MaxAspect         float64 `mapstructure:"max_aspect" yaml:"max_aspect"`
	Epsilon           float64 `mapstructure:"epsilon" yaml:"epsilon"`
}

type FeatureConfig struct {
	ArcHigh              float64 `mapstructure:"arc_high" yaml:"arc_high"`
	SymmetryHigh         float64 `mapstructure:"symmetry_high" yaml:"symmetry_high"`
	PolygonVertices      int     `mapstructure:"polygon_vertices" yaml:"polygon_vertices"`
	SlidingAreaThreshold float64 `mapstructure:"sliding_area_threshold" yaml:"sliding_area_threshold"`
	MirrorTolerance      float64 `mapstructure:"mirror_tolerance" yaml:"mirror_tolerance"`
}

type EstimateConfig struct {
	ProfileFrameWidth   float64 `mapstructure:"profile_frame_width" yaml:"profile_frame_width"`
	UnitWeightPerLength float64 `mapstructure:"unit_weight_per_length" yaml:"unit_weight_per_length"`
	LengthUnit          float64 `mapstructure:"length_unit" yaml:"length_unit"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // csv or yaml
	Path   string `mapstructure:"path" yaml:"path"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // sqlite file, empty disables persistence
}

type ServerConfig struct {
	Listen  string `mapstructure:"listen" yaml:"listen"`
	Metrics bool   `mapstructure:"metrics" yaml:"metrics"`
}

// Settings is the complete configuration of one dxfwin process.
type Settings struct {
	Debug          bool                 `mapstructure:"debug" yaml:"debug"`
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	Extraction     ExtractionConfig     `mapstructure:"extraction" yaml:"extraction"`
	Identification IdentificationConfig `mapstructure:"identification" yaml:"identification"`
	Loops          LoopConfig           `mapstructure:"loops" yaml:"loops"`
	Features       FeatureConfig        `mapstructure:"features" yaml:"features"`
	Estimate       EstimateConfig       `mapstructure:"estimate" yaml:"estimate"`
	Output         OutputConfig         `mapstructure:"output" yaml:"output"`
	Database       DatabaseConfig       `mapstructure:"database" yaml:"database"`
	Server         ServerConfig         `mapstructure:"server" yaml:"server"`
}

// NewViper returns a viper instance with defaults and environment overrides applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaultConfig(v)

	return v
}

// Load reads configFile (if set, otherwise dxfwin.yaml from the working
// directory when present) into validated Settings.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if v == nil {
		v = NewViper()
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("dxfwin")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.New(fmt.Errorf("error reading config file: %w", err)).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Context("file", configFile).
				Build()
		}
	}

	return Unmarshal(v)
}

// Unmarshal decodes and validates the settings held by v.
func Unmarshal(v *viper.Viper) (*Settings, error) {
	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error validating settings: %w", err)).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}

	return settings, nil
}

// WindowPattern returns the regular expression source used for window labels.
func (s *Settings) WindowPattern() (string, error) {
	if s.Identification.Pattern != "" {
		return s.Identification.Pattern, nil
	}

	return anchor.Standard(s.Identification.Standard, s.Identification.Prefix)
}

// PipelineConfig compiles the identification patterns and maps the settings
// onto the extraction pipeline.
func (s *Settings) PipelineConfig() (pipeline.Config, error) {
	source, err := s.WindowPattern()
	if err != nil {
		return pipeline.Config{}, err
	}

	window, err := anchor.NewPattern(source)
	if err != nil {
		return pipeline.Config{}, err
	}

	var door *anchor.Pattern
	if s.Identification.DoorPattern != "" {
		if door, err = anchor.NewPattern(s.Identification.DoorPattern); err != nil {
			return pipeline.Config{}, err
		}
	}

	est := estimate.New(s.Estimate.ProfileFrameWidth, s.Estimate.UnitWeightPerLength)
	est.LengthUnit = s.Estimate.LengthUnit

	return pipeline.Config{
		ScaleFactor:     s.Extraction.ScaleFactor,
		BatchSize:       s.Extraction.BatchSize,
		ReportUnlabeled: s.Extraction.ReportUnlabeled,
		Flatten: flatten.Options{
			MaxDepth:       s.Extraction.MaxDepth,
			CircleSegments: s.Extraction.CircleSegments,
			ArcSegments:    s.Extraction.ArcSegments,
		},
		Loop: loop.Options{
			WallAreaThreshold: s.Loops.WallAreaThreshold,
			NoiseFloor:        s.Loops.NoiseFloor,
			MaxAspect:         s.Loops.MaxAspect,
			Epsilon:           s.Loops.Epsilon,
		},
		Anchor: anchor.Options{
			Window:       window,
			Door:         door,
			PositionGrid: s.Identification.PositionGrid,
			AreaGrid:     s.Identification.AreaGrid,
		},
		Feature: feature.Options{
			ArcHigh:              s.Features.ArcHigh,
			SymmetryHigh:         s.Features.SymmetryHigh,
			PolygonVertices:      s.Features.PolygonVertices,
			SlidingAreaThreshold: s.Features.SlidingAreaThreshold,
			MirrorTolerance:      s.Features.MirrorTolerance,
		},
		Estimator: est,
	}, nil
}
