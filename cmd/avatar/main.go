package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/phanxgames/avatar/cmd/avatar/commands"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Log to stderr unless the user asks for files with --logtostderr=false.
	flag.Set("logtostderr", "true")

	commands.SetVersionInfo(version, commit, date)
	err := commands.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
