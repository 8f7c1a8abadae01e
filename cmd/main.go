package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/zooyer/golib/xos"
)

// dragged 把文件拖到程序上运行时，参数只有一个 dxf 文件
func dragged(args []string) bool {
	return len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), ".dxf")
}

// arguments 补全子命令: 无参数或拖入文件时执行 extract
func arguments(args []string) []string {
	if len(args) == 0 || dragged(args) {
		return append([]string{"extract"}, args...)
	}

	return args
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		args        = os.Args[1:]
		interactive = len(args) == 0 || dragged(args)
		rootCmd     = rootCommand(newApp())
	)
	rootCmd.SetArgs(arguments(args))

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
	}

	// 双击或拖入运行时窗口会立即关闭，暂停等待按键
	if interactive {
		xos.PauseExit()
	}

	if err != nil {
		stop()
		os.Exit(1)
	}
}
