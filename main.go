// Package main is the entry point for the aurora CLI.
package main

import (
	"github.com/huangsam/aurora/cmd"
	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/runstore"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	runstore.CloseRunStore()
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
