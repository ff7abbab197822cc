package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mchsplit/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the source and output paths are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail += " (not found, using defaults)"
			}
			lines := renderSectionHeader("Configuration", colorize)
			lines = append(lines,
				renderStatusLine("Config file", statusInfo, configDetail, colorize),
				renderStatusLine("Threads", statusInfo, capacityLabel(cfg.Capacity()), colorize),
				renderStatusLine("Strict codes", statusInfo, yesNo(cfg.Split.StrictCodes), colorize),
				renderStatusLine("History", statusInfo, yesNo(cfg.History.Enabled), colorize),
				"",
			)
			lines = append(lines, renderSectionHeader("Preflight", colorize)...)

			results := preflight.RunAll(cfg)
			lines = append(lines, renderCheckResults(results, colorize)...)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}

			if !preflight.Passed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
