package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-midisplit/config"
	"go-midisplit/debug"
)

var (
	Version = "dev"

	flags struct {
		output    string
		maxMemory int
		hardLimit int
		noTUI     bool
		preview   string
		palette   string
		log       bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "go-midisplit <input.mid>",
	Short: "Split multi-channel MIDI tracks into one track per channel",
	Long: `go-midisplit rewrites a standard MIDI file so that every track carries
events for a single channel. Tracks that interleave several channels are
split into one track per channel, in the order the channels first appear.
Meta and system exclusive events are copied into every split track.

The result is written as <name>_converted.mid next to the input unless
--output is given.`,
	Args:          cobra.ExactArgs(1),
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file (default <input>_converted.mid)")
	rootCmd.Flags().IntVarP(&flags.maxMemory, "max-memory", "m", 0,
		"soft heap ceiling in MB before forcing a collection (default from config, 1024)")
	rootCmd.Flags().IntVar(&flags.hardLimit, "hard-limit", 0,
		"fail when the heap stays above this many MB after a collection (0 = off)")
	rootCmd.Flags().BoolVar(&flags.noTUI, "no-tui", false,
		"print progress lines instead of the interactive view")
	rootCmd.Flags().StringVar(&flags.preview, "preview", "",
		"also write a piano-roll PNG of the converted tracks")
	rootCmd.Flags().StringVar(&flags.palette, "palette", "",
		"GIMP .gpl palette for the progress view and preview")
	rootCmd.Flags().BoolVarP(&flags.log, "log", "l", false,
		"write a debug log to ~/.config/go-midisplit/debug.log")
}

// loadConfig merges the config file with command line flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cmd.Flags().Changed("max-memory") {
		cfg.MaxMemoryMB = flags.maxMemory
	}
	if cmd.Flags().Changed("hard-limit") {
		cfg.HardLimitMB = flags.hardLimit
	}
	if flags.log {
		cfg.DebugLog = true
	}
	return cfg, nil
}

func main() {
	err := rootCmd.Execute()
	debug.Disable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
