package cli

import (
	"fmt"
	"os"

	"github.com/ebalder/wmstudio/internal/config"
	"github.com/ebalder/wmstudio/internal/model"
	"github.com/ebalder/wmstudio/internal/store"
)

func runTemplate(args []string, cfg *config.Config) int {
	if len(args) == 0 {
		templateUsage()
		return 2
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wmstudio:", err)
		return 1
	}

	switch args[0] {
	case "list":
		names, err := st.List()
		if err != nil {
			fmt.Fprintln(os.Stderr, "wmstudio:", err)
			return 1
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return 0

	case "show":
		if len(args) != 2 {
			templateUsage()
			return 2
		}
		wc, err := st.Load(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "wmstudio:", err)
			return 1
		}
		data, err := model.Encode(wc)
		if err != nil {
			fmt.Fprintln(os.Stderr, "wmstudio:", err)
			return 1
		}
		os.Stdout.Write(data)
		return 0

	case "save":
		// Saves the last-used config under the given name; with a file
		// argument, saves that document instead.
		if len(args) != 2 && len(args) != 3 {
			templateUsage()
			return 2
		}
		wc := st.LoadLast()
		if len(args) == 3 {
			data, err := os.ReadFile(args[2])
			if err != nil {
				fmt.Fprintln(os.Stderr, "wmstudio:", err)
				return 1
			}
			if wc, err = model.Decode(data); err != nil {
				fmt.Fprintln(os.Stderr, "wmstudio:", err)
				return 1
			}
		}
		if err := st.Save(args[1], wc); err != nil {
			fmt.Fprintln(os.Stderr, "wmstudio:", err)
			return 1
		}
		fmt.Println("saved", args[1])
		return 0

	case "delete":
		if len(args) != 2 {
			templateUsage()
			return 2
		}
		if err := st.Delete(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, "wmstudio:", err)
			return 1
		}
		fmt.Println("deleted", args[1])
		return 0

	default:
		templateUsage()
		return 2
	}
}

func templateUsage() {
	fmt.Fprint(os.Stderr, `usage: wmstudio template <subcommand>

Subcommands:
  list                   print saved template names
  show <name>            print a template as JSON
  save <name> [file]     save the last-used config (or a config file) as a template
  delete <name>          delete a template
`)
}
