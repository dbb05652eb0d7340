package main

import (
	"falci/internal/di"
	"falci/internal/structures"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML configuration file")
	flag.BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to stderr")
	flag.Parse()

	_, cleanup, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "falci: %s\n", err)
		os.Exit(1)
	}
	cleanup()
}
