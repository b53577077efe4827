// Command optimisers runs benchmark minimizations with the library's
// optimizers and inspects saved optimizer state.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
