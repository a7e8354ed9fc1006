// Package version holds build metadata injected through ldflags, e.g.
//
//	go build -ldflags "-X git.home.luguber.info/inful/inkframe/internal/version.Version=v0.3.0"
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// String renders the metadata for --version output.
func String() string {
	s := "inkframe " + Version
	if GitCommit != "" {
		s += fmt.Sprintf(" (%s)", shortCommit(GitCommit))
	}
	if BuildTime != "" {
		s += " built " + BuildTime
	}
	return s
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
