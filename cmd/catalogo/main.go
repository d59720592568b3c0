// Command catalogo is the terminal front-end of the productos API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"productos/internal/client"
	"productos/internal/config"
	"productos/internal/console"
	"productos/pkg/logger"
)

func main() {
	cfg, err := config.Load(viper.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the console
	if cfg.Log.Output == "" || cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	api := client.NewRESTClient(client.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	}, log)

	con := console.New(api, os.Stdin, os.Stdout, console.Options{PageSize: cfg.PageSize}, log)
	if err := con.Run(context.Background()); err != nil {
		log.Error("console stopped", "error", err)
		os.Exit(1)
	}
}
