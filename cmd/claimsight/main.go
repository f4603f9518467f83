// Command claimsight analyses insurance claims against policy documents.
package main

import (
	"github.com/claimsight/claimsight-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.ExitError(err)
	}
}
