package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"glint/internal/version"
)

// buildInfo is the single source for both renderings of the version
// command; empty fields stay out of either output.
type buildInfo struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionJSON bool

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "emit machine-readable JSON")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the glint build fingerprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildInfo{
			Tool:      "glint",
			Version:   strings.TrimSpace(version.Version),
			GitCommit: strings.TrimSpace(version.GitCommit),
			BuildDate: strings.TrimSpace(version.BuildDate),
		}
		out := cmd.OutOrStdout()
		if versionJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		fmt.Fprintf(out, "glint %s\n", version.Pretty())
		if info.GitCommit != "" {
			fmt.Fprintf(out, "  commit %s\n", info.GitCommit)
		}
		if info.BuildDate != "" {
			fmt.Fprintf(out, "  built  %s\n", info.BuildDate)
		}
		return nil
	},
}
