// main is the entry point for the scendiff CLI.
package main

import (
	"fmt"
	"os"

	"github.com/scendiff/scendiff/cmd"
	"github.com/scendiff/scendiff/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		fmt.Println("❌", err)
		iocache.CloseStores()
		_ = cmd.StopProfiling()
		os.Exit(1)
	}

	if err := cmd.StopProfiling(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
