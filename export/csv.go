package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/zooyer/golib/xos"

	"github.com/zooyer/dxfwin/errors"
	"github.com/zooyer/dxfwin/pipeline"
)

const csvHeader = "编号,类型,归属,外形,开启方式,宽度,高度,面积,周长,玻璃面积,型材重量,圆弧率,对称率,句柄\n"

// WriteCSV 先写表头，再逐行追加记录，最后追加统计行
func WriteCSV(filename string, records []pipeline.OpeningRecord) (err error) {
	if err = os.WriteFile(filename, []byte(csvHeader), 0644); err != nil {
		return fileError(err, filename)
	}

	var totalArea float64
	for _, r := range records {
		var line = fmt.Sprintf("%s,%s,%s,%s,%s,%.0f,%.0f,%.0f,%.0f,%.0f,%.2f,%.1f,%.1f,%s\n",
			csvField(r.Label), r.Kind, r.Category, r.ShapeClass, r.OpeningType,
			r.Width, r.Height, r.Area, r.Perimeter, r.GlassArea, r.FrameWeight,
			r.ArcRatio, r.SymmetryRate, csvField(r.SourceHandle),
		)
		if err = xos.AppendFile(filename, []byte(line), 0644); err != nil {
			return fileError(err, filename)
		}
		totalArea += r.Area
	}

	// 统计行，列数与表头一致
	var (
		columns = strings.Count(csvHeader, ",")
		stat    = fmt.Sprintf("共%d门窗,共%.0f面积%s\n", len(records), totalArea, strings.Repeat(",", columns-1))
	)
	if err = xos.AppendFile(filename, []byte(stat), 0644); err != nil {
		return fileError(err, filename)
	}

	return
}

// csvField 含逗号、引号或换行时加引号
func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}

	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func fileError(err error, filename string) error {
	return errors.New(err).
		Component("export").
		Category(errors.CategoryFileIO).
		Context("file", filename).
		Build()
}
