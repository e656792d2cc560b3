// Package main is the entry point for the ytap application.
package main

import (
	"github.com/samber/lo"
	"github.com/ytap-cli/ytap/cmd"
	"github.com/ytap-cli/ytap/config"
	"github.com/ytap-cli/ytap/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
