package main

import (
	"fmt"
	rtdebug "runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at link time: -ldflags "-X main.version=v1.2.3".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString(version, readBuildInfo()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

type buildInfo struct {
	goVersion string
	revision  string
	dirty     bool
}

func readBuildInfo() buildInfo {
	info, ok := rtdebug.ReadBuildInfo()
	if !ok {
		return buildInfo{}
	}
	b := buildInfo{goVersion: info.GoVersion}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.revision = s.Value
		case "vcs.modified":
			b.dirty = s.Value == "true"
		}
	}
	return b
}

func versionString(v string, b buildInfo) string {
	out := "jobhunter " + v
	if b.revision != "" {
		rev := b.revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if b.dirty {
			rev += "-dirty"
		}
		out += " (" + rev + ")"
	}
	if b.goVersion != "" {
		out += " " + b.goVersion
	}
	return out
}
