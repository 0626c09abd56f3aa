// Package main implements the stripjson entry point.
package main

import (
	"flag"
	"log"

	"github.com/seanhalberthal/stripjson/internal/cli"
	"github.com/seanhalberthal/stripjson/internal/config"
	logging "github.com/seanhalberthal/stripjson/internal/log"
	"github.com/seanhalberthal/stripjson/internal/server"
	"github.com/seanhalberthal/stripjson/internal/stripper"
)

func main() {
	mcpMode := flag.Bool("mcp", false, "Run as MCP server")
	configPath := flag.String("config", "", "Path to a config file (default: discover .stripjson.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if _, err := logging.InitLogger(cfg.LogFormat, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}

	strip := stripper.New(cfg)

	if *mcpMode {
		server.Run(strip)
		return
	}

	cli.Run(strip, flag.Args())
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}
