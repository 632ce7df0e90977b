// Command credential manages login credentials stored in MongoDB.
package main

import (
	"os"

	"github.com/socialhub/go-services/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
