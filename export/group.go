// Package export 将洞口记录写为 CSV 或 YAML，并按规格归类。
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/zooyer/dxfwin/pipeline"
)

// Group 同一规格(取整后的宽、高与外形)的洞口
type Group struct {
	Key       string   `yaml:"key" json:"key"`
	Width     float64  `yaml:"width" json:"width"`
	Height    float64  `yaml:"height" json:"height"`
	Shape     string   `yaml:"shape" json:"shape"`
	Count     int      `yaml:"count" json:"count"`
	TotalArea float64  `yaml:"total_area" json:"totalArea"`
	Labels    []string `yaml:"labels" json:"labels"`
}

// GroupRecords 按规格归类，数量多的在前，数量相同按出现顺序
func GroupRecords(records []pipeline.OpeningRecord) (groups []Group) {
	var index = make(map[string]int)

	for _, r := range records {
		var (
			w   = math.Round(r.Width)
			h   = math.Round(r.Height)
			key = fmt.Sprintf("%.0f-%.0f-%s", w, h, r.ShapeClass)
		)

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Width: w, Height: h, Shape: string(r.ShapeClass)})
		}

		groups[i].Count++
		groups[i].TotalArea += r.Area
		groups[i].Labels = append(groups[i].Labels, r.Label)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})

	return
}
