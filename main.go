package main

import (
	"os"

	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.S().Errorf("%v", err)
		_ = zap.L().Sync()
		os.Exit(1)
	}
}
