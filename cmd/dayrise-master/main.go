package main

import (
	"github.com/dayrise/dayrise.go/pkg/cli/sh"

	_ "github.com/dayrise/dayrise.go/pkg/cli/cmds/master"
)

//go-build: CGO_ENABLED=0

func init() {
	sh.SetupFlags()
}

func main() {
	sh.Main()
}
