package main

import "flag"

type cliFlags struct {
	configFile  string
	targetsFile string
	runOnce     bool
}

func parseFlags() cliFlags {
	configFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for --config")

	targetsFile := flag.String("targets", "", "Path to the YAML file listing monitored targets (overrides config file if set).")
	targetsFileAlias := flag.String("t", "", "Alias for --targets")

	runOnce := flag.Bool("once", false, "Evaluate every target a single time and exit instead of running the scheduler.")
	flag.Parse()

	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}
	if *targetsFile == "" && *targetsFileAlias != "" {
		*targetsFile = *targetsFileAlias
	}

	return cliFlags{
		configFile:  *configFile,
		targetsFile: *targetsFile,
		runOnce:     *runOnce,
	}
}
