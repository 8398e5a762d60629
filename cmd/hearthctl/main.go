package main

import (
	"context"
	"log"
	"os"

	"github.com/hearthlabs/hearthcore/internal/app"
	"github.com/hearthlabs/hearthcore/internal/buildinfo"
	"github.com/hearthlabs/hearthcore/internal/cli"
	"github.com/hearthlabs/hearthcore/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx := context.Background()
	cfg := config.LoadConfig()

	core, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer core.Close()

	c := cli.NewApp(core, os.Stdout)
	if err := c.Run(ctx, commandArgs(os.Args[1:])); err != nil {
		log.Fatalf("%v", err)
	}
}

// configFlags are the global flags consumed by config.LoadConfig. They may
// appear before the command name and must be hidden from the dispatcher.
var configFlags = map[string]struct{}{
	"-c": {}, "-config": {},
	"-s": {}, "-l": {}, "-d": {}, "-r": {}, "-q": {},
	"-u": {}, "-p": {}, "-b": {}, "-g": {}, "-e": {},
	"-t": {}, "-k": {}, "-v": {}, "-w": {},
}

// commandArgs strips the global config flags so the command dispatcher only
// sees the command name and its own arguments.
func commandArgs(args []string) []string {
	out := make([]string, 0, len(args))
	skip := false
	for _, a := range args {
		if skip {
			skip = false
			continue
		}
		if _, ok := configFlags[a]; ok {
			skip = true
			continue
		}
		out = append(out, a)
	}
	return out
}
