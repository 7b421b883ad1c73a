// Command dnamatch searches a k-mer matching service for the animal species
// closest to a DNA sequence, from the terminal or through a web UI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// A failed search has already been rendered; only the exit status is left.
		if !errors.Is(err, errSearchFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
