package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/zooyer/dxfwin/api"
	"github.com/zooyer/dxfwin/logging"
	"github.com/zooyer/dxfwin/metrics"
	"github.com/zooyer/dxfwin/store"
)

func serveCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动门窗记录 HTTP 服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringP("listen", "l", "127.0.0.1:8080", "监听地址")
	flags.String("db", "", "SQLite 数据库路径，为空时不保存")
	flags.Bool("metrics", true, "暴露 /metrics")

	a.bind(cmd, "server.listen", "listen")
	a.bind(cmd, "database.path", "db")
	a.bind(cmd, "server.metrics", "metrics")

	return cmd
}

func (a *app) serve(cmd *cobra.Command) (err error) {
	var (
		settings = a.settings
		logger   = logging.ForService("serve")
	)

	var st *store.Store
	if settings.Database.Path != "" {
		if st, err = store.Open(settings.Database.Path); err != nil {
			return err
		}
		defer func() {
			if e := st.Close(); e != nil && err == nil {
				err = e
			}
		}()
	} else {
		logger.Warn("database path is empty, records will not be saved")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.NewPipelineMetrics(registry)
	if err != nil {
		return err
	}

	e := api.NewEcho()
	api.New(e, st, settings, m)

	return api.Serve(cmd.Context(), e, settings.Server.Listen)
}
