package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zooyer/dxfwin/conf"
	"github.com/zooyer/dxfwin/logging"
)

// app 命令之间共享的配置
type app struct {
	viper      *viper.Viper
	configFile string
	settings   *conf.Settings
	bindings   map[*cobra.Command]map[string]string // 命令 -> 参数名 -> 配置项
}

func newApp() *app {
	return &app{
		viper:    conf.NewViper(),
		bindings: make(map[*cobra.Command]map[string]string),
	}
}

// rootCommand 创建根命令
func rootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dxfwin",
		Short:         "从 DXF 图纸中识别门窗洞口",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "配置文件路径(默认读取当前目录的 dxfwin.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "输出调试日志")
	a.bind(rootCmd, "debug", "debug")

	rootCmd.AddCommand(
		extractCommand(a),
		serveCommand(a),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.initialize(cmd)
	}

	return rootCmd
}

// bind 登记命令行参数对应的配置项，命令行优先于配置文件和环境变量。
// 不同子命令可以有同名参数，只有实际执行的命令会被绑定
func (a *app) bind(cmd *cobra.Command, key, name string) {
	if a.bindings[cmd] == nil {
		a.bindings[cmd] = make(map[string]string)
	}
	a.bindings[cmd][name] = key
}

func (a *app) bindFlags(cmd *cobra.Command) error {
	for _, c := range []*cobra.Command{cmd.Root(), cmd} {
		for name, key := range a.bindings[c] {
			if err := a.viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
				return fmt.Errorf("error binding flag %s: %w", name, err)
			}
		}
	}

	return nil
}

func (a *app) initialize(cmd *cobra.Command) error {
	if err := a.bindFlags(cmd); err != nil {
		return err
	}

	settings, err := conf.Load(a.viper, a.configFile)
	if err != nil {
		return err
	}
	a.settings = settings

	level := logging.ParseLevel(settings.Log.Level)
	if settings.Debug {
		level = slog.LevelDebug
	}
	logging.Init(os.Stderr, settings.Log.Format, level)

	return nil
}
