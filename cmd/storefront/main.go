package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/voltshop/storefront/config"
	"github.com/voltshop/storefront/internal/api"
	"github.com/voltshop/storefront/internal/app"
	"github.com/voltshop/storefront/internal/webserver"
	"github.com/voltshop/storefront/pkg/common"
)

var (
	cfile   = flag.String("c", "/etc/storefront.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate the database schema")
	showVer = flag.Bool("v", false, "print version and exit")
	version = "dev"
)

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println(version)
		return
	}

	if !common.FileExists(*cfile) {
		fmt.Printf("config file %s not found, using defaults\n", *cfile)
	}
	cfg := config.LoadConfig(*cfile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	server := webserver.Init(application)
	api.Init(application)

	go func() {
		if err := server.Start(); err != nil {
			zap.S().Fatalf("web server stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	zap.S().Info("shutting down")
}
