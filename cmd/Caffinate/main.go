package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	httpServer "Caffinate/api/http"
	"Caffinate/internal/config"
	"Caffinate/pkg/zlog"
)

func main() {
	conf := config.GetConfig()
	host := conf.MainConfig.Host
	port := conf.MainConfig.Port
	if port == 0 {
		port = 8000
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		zlog.Info("server starting, listening on " + addr)
		if err := httpServer.GE.Run(addr); err != nil {
			zlog.Fatal("server start failed: " + err.Error())
			return
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server...")
	zlog.Info("server stopped")
}
