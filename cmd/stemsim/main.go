// Package main is the stem simulator command itself.
package main

import (
	"log"
	"os"

	"github.com/igknighters/stemsolver/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
