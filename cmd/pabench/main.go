// cmd/pabench/main.go
package main

import (
	cmd "pabench/internal/commands"
)

// main starts the pabench CLI application by delegating to the
// cobra root command defined in the commands package.
func main() {
	cmd.Execute()
}
