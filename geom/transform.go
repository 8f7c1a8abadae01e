// Package geom 平面几何工具: 块变换、曲线离散、多边形度量与点包含判断。
package geom

import (
	"github.com/zooyer/dxfwin/core"
)

// Transform 块插入变换: 先缩放，再旋转(度)，最后平移
type Transform struct {
	Offset   core.Point
	Scale    core.Point
	Rotation float64
}

// Identity 单位变换
func Identity() Transform {
	return Transform{Scale: core.Point{X: 1, Y: 1}}
}

// Scaled 均匀缩放 factor 的根变换
func Scaled(factor float64) Transform {
	return Transform{Scale: core.Point{X: factor, Y: factor}}
}

// Apply 将局部坐标点经过变换转换到父级/世界坐标
func (t Transform) Apply(p core.Point) core.Point {
	// 1. 缩放 2. 旋转 3. 平移
	return t.Offset.Add(p.Mul(t.Scale).Rotate(t.Rotation))
}

// ApplyAll 变换点序列，返回新切片
func (t Transform) ApplyAll(points []core.Point) []core.Point {
	var out = make([]core.Point, len(points))
	for i, p := range points {
		out[i] = t.Apply(p)
	}

	return out
}

// Compose 合并嵌套块的变换: t 为父级，child 为子块插入
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		// 插入点叠加：子块的插入点需要经过父块的 缩放 -> 旋转 -> 平移
		Offset: t.Apply(child.Offset),
		// 缩放叠加
		Scale: t.Scale.Mul(child.Scale),
		// 旋转叠加
		Rotation: t.Rotation + child.Rotation,
	}
}
