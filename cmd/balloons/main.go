package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/sage-audio/asset"
	"github.com/lixenwraith/sage-audio/audio"
	"github.com/lixenwraith/sage-audio/service"
	"github.com/lixenwraith/sage-audio/settings"
)

var (
	assetsFlag   = flag.String("assets", "", "Asset directory or .zip bundle (empty: generate placeholders)")
	settingsFlag = flag.String("settings", defaultSettingsPath(), "Preference file (.yaml or .db)")
	debugFlag    = flag.Bool("debug", false, "Write debug log to logs/balloons.log")
)

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sage-audio", "balloons.yaml")
}

// placeholderAssets writes generated clips to a temp dir and points the music
// track at them unless the environment already names one
func placeholderAssets() (string, func(), error) {
	dir, err := os.MkdirTemp("", "balloons-assets-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	cfg, err := audio.LoadConfig()
	if err != nil {
		cfg = audio.DefaultConfig()
	}
	if _, err := audio.GenerateAssets(dir, cfg); err != nil {
		cleanup()
		return "", nil, err
	}
	if _, ok := os.LookupEnv(audio.EnvPrefix + "MUSIC_FILE"); !ok {
		os.Setenv(audio.EnvPrefix+"MUSIC_FILE", audio.GeneratedMusicFile)
	}
	return dir, cleanup, nil
}

func main() {
	flag.Parse()
	os.Exit(run())
}

// crashGuard restores the terminal and turns a panic into exit code 1 so the
// remaining deferred shutdown still runs
func crashGuard(screen tcell.Screen, code *int) {
	if r := recover(); r != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\n\x1b[31mBALLOONS CRASHED: %v\x1b[0m\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
		*code = 1
	}
}

func run() (code int) {
	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	assetPath := *assetsFlag
	if assetPath == "" {
		dir, cleanup, err := placeholderAssets()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate assets: %v\n", err)
			return 1
		}
		defer cleanup()
		assetPath = dir
	}

	prefs := settings.NewService(*settingsFlag)
	assets := asset.NewService(assetPath)
	sound := audio.NewService(prefs, assets)

	hub := service.NewHub()
	for _, svc := range []service.Service{prefs, assets, sound} {
		if err := hub.Register(svc); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register %s: %v\n", svc.Name(), err)
			return 1
		}
	}
	if err := hub.InitAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		return 1
	}
	defer hub.StopAll()
	if err := hub.StartAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	if sound.IsDisabled() {
		log.Warn("no audio device, playing silently")
	}
	if err := sound.Manager().Report().Err(); err != nil {
		log.Warn("some audio failed to load", "err", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}
	screen.EnableFocus()

	defer crashGuard(screen, &code)
	defer screen.Fini()

	game := NewGame(screen, sound.Manager())
	game.metrics = sound.Status()
	game.run()
	return 0
}
