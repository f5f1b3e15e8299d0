package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"menumerge/internal/entity"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps classified errors to distinct statuses so scripts can tell
// bad input apart from missing runs and internal failures.
func exitCode(err error) int {
	switch entity.KindOf(err) {
	case entity.KindValidation, entity.KindInput:
		return 2
	case entity.KindNotFound:
		return 3
	default:
		return 1
	}
}
