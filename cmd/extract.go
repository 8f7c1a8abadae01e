package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"

	"github.com/zooyer/dxfwin"
	"github.com/zooyer/dxfwin/conf"
	"github.com/zooyer/dxfwin/errors"
	"github.com/zooyer/dxfwin/export"
	"github.com/zooyer/dxfwin/logging"
	"github.com/zooyer/dxfwin/pipeline"
	"github.com/zooyer/dxfwin/store"
)

func extractCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file.dxf]",
		Short: "识别图纸中的门窗并导出",
		Long:  "识别图纸中的门窗洞口，导出为 CSV 或 YAML。不带参数运行时弹出文件选择框。",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.extractInteractive(cmd)
			}
			return a.extract(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringP("out", "o", "", "输出文件路径(默认与图纸同名)")
	flags.StringP("format", "f", "csv", "输出格式: csv, yaml")
	flags.String("db", "", "保存识别结果的 SQLite 数据库")
	flags.StringP("standard", "s", "standard", "编号规则: standard, flexible, fuzzy")
	flags.String("pattern", "", "自定义编号正则，优先于 --standard")
	flags.Float64("scale", 1, "图纸单位到毫米的缩放比例")
	flags.Bool("unlabeled", false, "输出未标注编号的候选洞口")

	a.bind(cmd, "output.path", "out")
	a.bind(cmd, "output.format", "format")
	a.bind(cmd, "database.path", "db")
	a.bind(cmd, "identification.standard", "standard")
	a.bind(cmd, "identification.pattern", "pattern")
	a.bind(cmd, "extraction.scale_factor", "scale")
	a.bind(cmd, "extraction.report_unlabeled", "unlabeled")

	return cmd
}

// extractInteractive 双击运行: 选择文件，出错时弹窗提示
func (a *app) extractInteractive(cmd *cobra.Command) (err error) {
	defer func() {
		if err != nil && !errors.Is(err, zenity.ErrCanceled) {
			_ = zenity.Error(err.Error(), zenity.Title("dxfwin"))
		}
	}()

	filename, err := zenity.SelectFile(
		zenity.Title("选择 DXF 图纸"),
		zenity.FileFilter{Name: "DXF 图纸", Patterns: []string{"*.dxf"}, CaseFold: true},
	)
	if err != nil {
		return err
	}

	return a.extract(cmd.Context(), cmd.OutOrStdout(), filename)
}

// outputName 输出文件名，默认与图纸同目录同名
func outputName(filename, out, format string) string {
	if out != "" {
		return out
	}

	return strings.TrimSuffix(filename, filepath.Ext(filename)) + "." + format
}

func (a *app) extract(ctx context.Context, w io.Writer, filename string) (err error) {
	var (
		settings = a.settings
		logger   = logging.ForService("extract")
		format   = strings.ToLower(settings.Output.Format)
	)

	d, err := dxfwin.ReadFile(filename)
	if err != nil {
		return err
	}

	cfg, err := settings.PipelineConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "开始处理: %s\n", filename)
	res, err := p.Run(ctx, d, func(percent int) {
		logger.Debug("progress", "percent", percent)
	})
	if err != nil {
		return err
	}

	for i, r := range res.Records {
		fmt.Fprintf(w, "    [%03d] %-8s | %-6s | %.0f x %.0f | %s %s | %s\n",
			i+1, r.Label, r.Kind, r.Width, r.Height, r.ShapeClass, r.OpeningType, r.Category,
		)
	}
	for _, l := range res.Unlabeled {
		fmt.Fprintf(w, "    [未标注] %.0f x %.0f | 句柄 %s\n", l.Bounds.Width(), l.Bounds.Height(), l.Handle)
	}

	var out = outputName(filename, settings.Output.Path, format)
	switch format {
	case "csv":
		err = export.WriteCSV(out, res.Records)
	case "yaml":
		err = export.WriteYAML(out, export.NewDocument(filepath.Base(filename), res))
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "写入文件:", out)

	if settings.Database.Path != "" {
		if err = save(ctx, settings, filename, res); err != nil {
			return err
		}
		fmt.Fprintln(w, "写入数据库:", settings.Database.Path)
	}

	var totalArea float64
	for _, r := range res.Records {
		totalArea += r.Area
	}
	fmt.Fprintf(w, "共%d门窗, 共%.0f面积, 跳过%d个未匹配编号\n", len(res.Records), totalArea, res.Stats.Unmatched)

	return nil
}

// save 将识别结果保存为一张图纸记录
func save(ctx context.Context, settings *conf.Settings, filename string, res *pipeline.Result) (err error) {
	st, err := store.Open(settings.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if e := st.Close(); e != nil && err == nil {
			err = e
		}
	}()

	var (
		name = filepath.Base(filename)
		d    = &store.Drawing{
			Title:    strings.TrimSuffix(name, filepath.Ext(name)),
			FileName: name,
			CenterX:  res.Center.X,
			CenterY:  res.Center.Y,
		}
	)
	_, err = st.CreateDrawing(ctx, d, store.FromResult(res))

	return err
}
