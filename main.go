package main

import (
	"os"

	"github.com/Guen0x/Redis-mongo-ubereat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
