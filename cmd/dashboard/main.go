package main

import (
	"flag"
	"os"

	"firefleet-sim/internal/dashboard"
	"firefleet-sim/internal/logging"
)

func main() {
	out := flag.String("out", "build", "directory for the rendered dashboards")
	flag.Parse()

	log := logging.New()
	if err := dashboard.Render(*out); err != nil {
		log.Error("render dashboards", "err", err)
		os.Exit(1)
	}
	log.Info("dashboards rendered", "dir", *out)
}
