package main

import (
	"os"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
