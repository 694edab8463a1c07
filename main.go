package main

import (
	"os"

	"github.com/fhorray/progy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
