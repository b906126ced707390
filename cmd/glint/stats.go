package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"glint/internal/metadata"
	"glint/internal/unitfile"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags] unit.toml",
	Short: "Summarize the metadata a unit description produces",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	u, err := unitfile.Load(args[0])
	if err != nil {
		return err
	}
	g, err := unitfile.Emit(u, unitfile.EmitOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	counts := make(map[string]int)
	g.Table().Live(func(n *metadata.Node) {
		counts[n.Kind.String()]++
	})
	names := make([]string, 0, len(counts))
	width := 0
	for name := range counts {
		names = append(names, name)
		if w := runewidth.StringWidth(name); w > width {
			width = w
		}
	}
	sort.Strings(names)

	label := color.New(color.FgGreen)
	label.DisableColor()
	if useColor(cmd, os.Stdout) {
		label.EnableColor()
	}

	fmt.Fprintf(os.Stdout, "%s: %d nodes, %d attachments\n",
		args[0], g.Table().Len(), len(g.Attachments()))
	for _, name := range names {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(name))
		label.Fprintf(os.Stdout, "  %s%s", name, pad)
		fmt.Fprintf(os.Stdout, "  %d\n", counts[name])
	}
	return nil
}
