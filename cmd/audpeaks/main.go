// SPDX-License-Identifier: EPL-2.0

// Command audpeaks generates audiowaveform compatible peaks files and serves
// them over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
