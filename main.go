// main is the entry point for the proneness CLI.
package main

import (
	"github.com/huangsam/proneness/cmd"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
