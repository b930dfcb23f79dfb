package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/vmcollection/spidermap-go/cmd"
	"github.com/vmcollection/spidermap-go/internal/conf"
	"github.com/vmcollection/spidermap-go/internal/logging"
)

// version and buildDate are set by the build process via ldflags.
var version = "dev"
var buildDate = "unknown"

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}
	settings.Version = version
	settings.BuildDate = buildDate

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}

	if settings.Main.Log.Enabled {
		closeLog, err := logging.InitWithFile(settings.Main.Log.Path, level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = closeLog()
		}()
	} else {
		logging.SetLevel(level)
	}
	logging.SetInstance(settings.Main.Name)

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command execution error: %v\n", err)
		os.Exit(1)
	}
}
