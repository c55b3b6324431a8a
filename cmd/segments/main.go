// segments serves the customer segmentation app and scores csv files from the command line.
//
// Usage:
//
//	segments serve [--config <dir>] [--port <port>] [--scaler <path>] [--model <path>] [--debug]
//	segments score --in <file.csv> [--out <file.csv>]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
