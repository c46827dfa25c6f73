package main

import (
	"linerelay/cmd"

	"github.com/rs/zerolog/log"
)

func main() {
	log.Info().Msg("starting linerelay...")
	cmd.Execute()
}
