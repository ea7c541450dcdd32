package main

import (
	"embed"
	"flag"
	"log"

	"github.com/chazu/meshkit/pkg/config"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	path := flag.String("config", "", "settings file (default "+config.DefaultPath+" if present)")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	err = wails.Run(&options.App{
		Title:  "meshkit",
		Width:  int(cfg.Viewport.Width),
		Height: int(cfg.Viewport.Height),
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 30, G: 30, B: 36, A: 1},
		OnStartup:        app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatalf("wails: %v", err)
	}
}
