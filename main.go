package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clarechu/sys-assistant/cmd"
	"k8s.io/klog/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd := cmd.GetRootCmd(os.Args[1:])
	err := rootCmd.ExecuteContext(ctx)
	stop()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
