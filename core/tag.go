package core

import (
	"strconv"
	"strings"
)

// Tag 代表 DXF 中的一组标签对(组码 + 值)
type Tag struct {
	Code  int
	Value string
}

// IsMarker 判断是否为组码 0 的指定标记，如 SECTION、ENDSEC、SEQEND
func (t Tag) IsMarker(name string) bool {
	return t.Code == 0 && strings.EqualFold(strings.TrimSpace(t.Value), name)
}

// AsFloat 将值转换为 float64
func (t Tag) AsFloat() float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
	return f
}

// AsInt 将值转换为 int
func (t Tag) AsInt() int {
	i, _ := strconv.Atoi(strings.TrimSpace(t.Value))
	return i
}

// AsString 清洗字符串（去除多余空格）
func (t Tag) AsString() string {
	return strings.TrimSpace(t.Value)
}
