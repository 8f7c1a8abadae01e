// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"

	"github.com/zooyer/dxfwin/anchor"
	"github.com/zooyer/dxfwin/estimate"
	"github.com/zooyer/dxfwin/feature"
	"github.com/zooyer/dxfwin/flatten"
	"github.com/zooyer/dxfwin/geom"
	"github.com/zooyer/dxfwin/loop"
	"github.com/zooyer/dxfwin/pipeline"
)

// Sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("extraction.scale_factor", 1.0)
	v.SetDefault("extraction.batch_size", pipeline.DefaultBatchSize)
	v.SetDefault("extraction.max_depth", flatten.DefaultMaxDepth)
	v.SetDefault("extraction.circle_segments", geom.DefaultCircleSegments)
	v.SetDefault("extraction.arc_segments", geom.DefaultArcSegments)
	v.SetDefault("extraction.report_unlabeled", false)

	v.SetDefault("identification.standard", "standard")
	v.SetDefault("identification.prefix", "C")
	v.SetDefault("identification.pattern", "")
	v.SetDefault("identification.door_pattern", anchor.DefaultDoorPattern)
	v.SetDefault("identification.position_grid", anchor.DefaultPositionGrid)
	v.SetDefault("identification.area_grid", anchor.DefaultAreaGrid)

	v.SetDefault("loops.wall_area_threshold", loop.DefaultWallAreaThreshold)
	v.SetDefault("loops.noise_floor", loop.DefaultNoiseFloor)
	v.SetDefault("loops.max_aspect", loop.DefaultMaxAspect)
	v.SetDefault("loops.epsilon", loop.DefaultEpsilon)

	v.SetDefault("features.arc_high", feature.DefaultArcHigh)
	v.SetDefault("features.symmetry_high", feature.DefaultSymmetryHigh)
	v.SetDefault("features.polygon_vertices", feature.DefaultPolygonVertices)
	v.SetDefault("features.sliding_area_threshold", feature.DefaultSlidingAreaThreshold)
	v.SetDefault("features.mirror_tolerance", feature.DefaultMirrorTolerance)

	v.SetDefault("estimate.profile_frame_width", estimate.DefaultProfileFrameWidth)
	v.SetDefault("estimate.unit_weight_per_length", estimate.DefaultUnitWeightPerLength)
	v.SetDefault("estimate.length_unit", estimate.DefaultLengthUnit)

	v.SetDefault("output.format", "csv")
	v.SetDefault("output.path", "")

	v.SetDefault("database.path", "")

	v.SetDefault("server.listen", "127.0.0.1:8080")
	v.SetDefault("server.metrics", true)
}
