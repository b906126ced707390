package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"glint/internal/typeident"
	"glint/internal/unitfile"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] unit.toml...",
	Short: "Emit debug metadata for unit descriptions",
	Long: `Dump replays each unit description through the debug emitter and prints
the resulting metadata graph as LLVM-style textual metadata`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().String("type-ids", "", "path of the shared retained-type-identifier map")
	dumpCmd.Flags().String("producer", "", "override the recorded producer string")
	dumpCmd.Flags().Int("jobs", 0, "parallel unit workers (0 = GOMAXPROCS)")
}

func runDump(cmd *cobra.Command, args []string) error {
	idsPath, err := cmd.Flags().GetString("type-ids")
	if err != nil {
		return fmt.Errorf("failed to get type-ids flag: %w", err)
	}
	producer, err := cmd.Flags().GetString("producer")
	if err != nil {
		return fmt.Errorf("failed to get producer flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	var ids *typeident.Map
	if idsPath != "" {
		ids, err = typeident.Load(idsPath)
		if err != nil {
			return err
		}
	}

	// Units are parsed up front so a bad file fails before anything prints.
	units := make([]*unitfile.Unit, len(args))
	for i, path := range args {
		u, err := unitfile.Load(path)
		if err != nil {
			return err
		}
		units[i] = u
	}

	// Emission runs in parallel; output stays in argument order. Units
	// sharing a type-identifier map race on who describes a type first,
	// which is fine: exactly one of them wins the full description.
	rendered := make([]string, len(units))
	var eg errgroup.Group
	eg.SetLimit(jobs)
	for i, u := range units {
		eg.Go(func() error {
			g, err := unitfile.Emit(u, unitfile.EmitOptions{
				TypeIDs:  ids,
				Producer: producer,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", args[i], err)
			}
			rendered[i] = g.Render()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	header := color.New(color.FgCyan, color.Bold)
	header.DisableColor()
	if useColor(cmd, os.Stdout) {
		header.EnableColor()
	}
	for i, out := range rendered {
		if !quiet && len(rendered) > 1 {
			header.Fprintf(os.Stdout, "; %s\n", args[i])
		}
		fmt.Fprint(os.Stdout, out)
	}

	if idsPath != "" {
		if err := ids.Save(idsPath); err != nil {
			return err
		}
	}
	return nil
}
