package main

import (
	"os"

	"github.com/MarianoIzarriaga/Trivia/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
