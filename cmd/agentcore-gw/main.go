package main

import (
	"os"

	"github.com/raywall/terraform-provider-agentcore/provider/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
