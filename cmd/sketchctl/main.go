// Command sketchctl classifies saved sketches offline with the same models
// and preprocessing as the interactive app.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
