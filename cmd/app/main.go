package main

import (
	"os"

	"github.com/labstack/gommon/log"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		log.Fatalf("orderstate: %v", err)
	}
}
