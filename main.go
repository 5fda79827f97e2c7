package main

import (
	"log"

	"github.com/fotonatura/portfolio-api/config"

	"github.com/fotonatura/portfolio-api/cmd"
)

func main() {
	log.Printf("portfolio api %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
