package flatten

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Style 线型分类
type Style string

const (
	StyleContinuous Style = "continuous"
	StyleDashed     Style = "dashed"
	StyleHidden     Style = "hidden"
	StyleDotted     Style = "dotted"
	StyleGray       Style = "gray"
)

// IsIndicator 虚线、隐藏线、点线与灰线常用于表示开启方向
func (s Style) IsIndicator() bool {
	return s != StyleContinuous && s != ""
}

const (
	defaultColor    = 7 // 白/黑前景色
	defaultLineType = "CONTINUOUS"
)

// ClassifyLineType 按线型名称分类
func ClassifyLineType(name string) Style {
	name = strings.ToUpper(name)

	switch {
	case strings.Contains(name, "HIDDEN"):
		return StyleHidden
	case strings.Contains(name, "DOT"):
		return StyleDotted
	case strings.Contains(name, "DASH"), strings.Contains(name, "CENTER"), strings.Contains(name, "PHANTOM"):
		return StyleDashed
	default:
		return StyleContinuous
	}
}

// 标准 ACI 调色板的前 9 色
var basePalette = map[int]string{
	1: "#FF0000", 2: "#FFFF00", 3: "#00FF00", 4: "#00FFFF", 5: "#0000FF",
	6: "#FF00FF", 7: "#FFFFFF", 8: "#808080", 9: "#C0C0C0",
}

// 250-255 灰阶
var grayLevels = []float64{0.2, 0.314, 0.447, 0.561, 0.694, 1}

// Palette 近似的 ACI 颜色
func Palette(aci int) colorful.Color {
	aci = int(math.Abs(float64(aci)))

	if hex, ok := basePalette[aci]; ok {
		c, _ := colorful.Hex(hex)
		return c
	}

	if aci >= 250 && aci <= 255 {
		v := grayLevels[aci-250]
		return colorful.Color{R: v, G: v, B: v}
	}

	if aci >= 10 && aci <= 249 {
		// 每 10 个一组色相，组内偶数为饱和色、奇数为淡色，亮度逐级降低
		var (
			hue   = float64((aci-10)/10) * 15
			shade = (aci - 10) % 10
			sat   = 1.0
			val   = []float64{1, 1, 0.8, 0.8, 0.6, 0.6, 0.5, 0.5, 0.3, 0.3}[shade]
		)
		if shade%2 == 1 {
			sat = 0.5
		}
		return colorful.Hsv(hue, sat, val)
	}

	c, _ := colorful.Hex(basePalette[defaultColor])
	return c
}

// IsGray 灰色(低饱和度)，前景色 7 除外
func IsGray(aci int) bool {
	aci = int(math.Abs(float64(aci)))
	if aci == defaultColor || aci == 0 || aci == 256 {
		return false
	}

	_, s, _ := Palette(aci).Hsl()

	return s < 0.1
}
