// Command mind edits mind trees from the command line.
package main

import (
	"context"
	"os"

	"github.com/vanderheijden86/mind/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), cli.DefaultEnv(), os.Args[1:]))
}
