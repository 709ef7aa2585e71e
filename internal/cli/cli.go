// Package cli implements the wmstudio command verbs.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ebalder/wmstudio/internal/config"
)

const version = "1.0.0"

// Run dispatches the command verbs and returns the process exit code. Export
// runs return 0 when every item succeeded, 1 when at least one item failed or
// the run was canceled, and 2 when the batch never started.
func Run(ctx context.Context, args []string, cfg *config.Config) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "export":
		return runExport(ctx, args[1:], cfg)
	case "serve":
		return runServe(ctx, args[1:], cfg)
	case "template":
		return runTemplate(args[1:], cfg)
	case "history":
		return runHistory(args[1:], cfg)
	case "version":
		fmt.Println("wmstudio " + version)
		return 0
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "wmstudio: unknown command %q\n\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: wmstudio <command> [flags] [args]

Commands:
  export    watermark a batch of images
  serve     run the preview HTTP service
  template  list, show, save or delete saved templates
  history   show recent export batches
  version   print the version

Run "wmstudio <command> -h" for the flags of a command.
`)
}
