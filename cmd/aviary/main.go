// Aviary is a small underwater flight demo: steer a bird over a procedural
// seabed under a skybox, lit by the sun and the bird's own headlight.
package main

import (
	"Aviary/internal/config"
	"Aviary/internal/engine"
	"Aviary/internal/logger"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// defined flags
var (
	levelFlag      = logLevelFlag{value: zapcore.InfoLevel}
	configFlag     = flag.String("config", "assets/scene.yaml", "scene file to load")
	logFileFlag    = flag.String("logfile", "", "also write JSON logs to this file")
	debugFlag      = flag.Bool("debug", false, "render in wireframe and log at debug level")
	dumpConfigFlag = flag.Bool("dump-config", false, "print the effective scene config and exit")
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
	flag.Var(&levelFlag, "loglevel", "log level (debug, info, warn, error)")
}

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	opts := logger.DefaultOptions()
	opts.Level = levelFlag.value
	if *debugFlag {
		opts.Level = zapcore.DebugLevel
	}
	opts.File = *logFileFlag
	logger.Init(opts)
	defer logger.Sync()

	cfg, err := config.Load(*configFlag)
	if errors.Is(err, fs.ErrNotExist) && !configSet() {
		// Run from elsewhere: the built-in scene reads the embedded assets.
		logger.Log.Info("No scene file, using built-in scene", zap.String("path", *configFlag))
		cfg, err = config.Default(), nil
	}
	if err != nil {
		logger.Log.Error("Could not load scene", zap.String("path", *configFlag), zap.Error(err))
		return 1
	}

	if *dumpConfigFlag {
		data, err := cfg.Marshal()
		if err != nil {
			logger.Log.Error("Could not render scene config", zap.Error(err))
			return 1
		}
		fmt.Print(string(data))
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gopher := engine.New(cfg)
	gopher.SetDebugMode(*debugFlag)
	gopher.SetFaceCulling(cfg.Window.FaceCulling)
	if err := gopher.Run(ctx); err != nil {
		logger.Log.Error("Aviary stopped", zap.Error(err))
		return 1
	}
	return 0
}

func configSet() bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			set = true
		}
	})
	return set
}
