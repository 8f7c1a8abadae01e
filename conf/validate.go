package conf

import (
	"fmt"
	"strings"

	"github.com/zooyer/dxfwin/anchor"
)

// ValidationError collects every problem found in the settings.
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validators := []func(*Settings) []string{
		validateExtraction,
		validateIdentification,
		validateLoops,
		validateEstimate,
		validateOutput,
	}
	for _, validate := range validators {
		ve.Errors = append(ve.Errors, validate(settings)...)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateExtraction(s *Settings) (errs []string) {
	if s.Extraction.ScaleFactor <= 0 {
		errs = append(errs, fmt.Sprintf("extraction.scale_factor must be greater than 0, got %v", s.Extraction.ScaleFactor))
	}
	if s.Extraction.BatchSize <= 0 {
		errs = append(errs, "extraction.batch_size must be greater than 0")
	}
	if s.Extraction.MaxDepth <= 0 {
		errs = append(errs, "extraction.max_depth must be greater than 0")
	}
	if s.Extraction.CircleSegments < 3 {
		errs = append(errs, "extraction.circle_segments must be at least 3")
	}
	if s.Extraction.ArcSegments < 1 {
		errs = append(errs, "extraction.arc_segments must be at least 1")
	}

	return
}

func validateIdentification(s *Settings) (errs []string) {
	source, err := s.WindowPattern()
	if err != nil {
		return append(errs, err.Error())
	}
	if _, err = anchor.NewPattern(source); err != nil {
		errs = append(errs, err.Error())
	}
	if s.Identification.DoorPattern != "" {
		if _, err = anchor.NewPattern(s.Identification.DoorPattern); err != nil {
			errs = append(errs, err.Error())
		}
	}

	return
}

func validateLoops(s *Settings) (errs []string) {
	if s.Loops.WallAreaThreshold <= 0 {
		errs = append(errs, "loops.wall_area_threshold must be greater than 0")
	}
	if s.Loops.NoiseFloor < 0 {
		errs = append(errs, "loops.noise_floor must not be negative")
	}
	if s.Loops.NoiseFloor >= s.Loops.WallAreaThreshold {
		errs = append(errs, "loops.noise_floor must be below loops.wall_area_threshold")
	}
	if s.Loops.MaxAspect < 1 {
		errs = append(errs, "loops.max_aspect must be at least 1")
	}
	if s.Loops.Epsilon <= 0 {
		errs = append(errs, "loops.epsilon must be greater than 0")
	}

	return
}

func validateEstimate(s *Settings) (errs []string) {
	if s.Estimate.ProfileFrameWidth < 0 {
		errs = append(errs, "estimate.profile_frame_width must not be negative")
	}
	if s.Estimate.UnitWeightPerLength < 0 {
		errs = append(errs, "estimate.unit_weight_per_length must not be negative")
	}

	return
}

func validateOutput(s *Settings) (errs []string) {
	switch strings.ToLower(s.Output.Format) {
	case "csv", "yaml":
	default:
		errs = append(errs, fmt.Sprintf("output.format must be csv or yaml, got %q", s.Output.Format))
	}

	return
}
