package main

import (
	"github.com/caesium-cloud/triggerkit/cmd"
	"github.com/caesium-cloud/triggerkit/pkg/env"
	"github.com/caesium-cloud/triggerkit/pkg/log"
)

func main() {
	if err := env.Process(); err != nil {
		log.Fatal("environment failure", "error", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal("triggerkit failure", "error", err)
	}
}
