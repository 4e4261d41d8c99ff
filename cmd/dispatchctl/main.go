// Dispatchctl sends text and image requests to AI providers through the
// lumenhq dispatcher.
//
// Usage:
//
//	# Text completion with the default provider
//	dispatchctl text "Summarize the plot of Hamlet"
//
//	# Image generation on a specific provider
//	dispatchctl image --provider stability "a lighthouse at dusk, oil painting"
//
//	# Image edit from a local file
//	dispatchctl edit --source ./room.png "repaint the walls sage green"
//
//	# Show what a prompt would look like after compression
//	dispatchctl compress --provider midjourney < long_prompt.txt
//
//	# List configured providers
//	dispatchctl providers
//
// The API key is read from --api-key or DISPATCH_API_KEY.
package main

import (
	"fmt"
	"os"

	"lumenhq/dispatch/pkg/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
