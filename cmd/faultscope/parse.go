package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RMahshie/faultscope/internal/processing"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a COMTRADE recording and print it as JSON",
		Long: "Parse either a combined CFF file or a CFG/DAT pair and print the flattened recording. " +
			"On failure the same message the API returns is printed to stderr.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cffPath, _ := cmd.Flags().GetString("cff")
			cfgPath, _ := cmd.Flags().GetString("cfg")
			datPath, _ := cmd.Flags().GetString("dat")
			encoding, _ := cmd.Flags().GetString("encoding")
			waveform, _ := cmd.Flags().GetBool("waveform")
			pretty, _ := cmd.Flags().GetBool("pretty")

			in := processing.Input{Encoding: encoding}
			var err error
			if in.Combined, err = readOptional(cffPath); err != nil {
				return err
			}
			if in.Config, err = readOptional(cfgPath); err != nil {
				return err
			}
			if in.Data, err = readOptional(datPath); err != nil {
				return err
			}

			snap, err := processing.Parse(in, nil, processing.Options{IncludeWaveform: waveform})
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(snap)
		},
	}

	cmd.Flags().String("cff", "", "Combined CFF file")
	cmd.Flags().String("cfg", "", "Configuration file")
	cmd.Flags().String("dat", "", "Data file")
	cmd.Flags().String("encoding", "", "Text encoding label of the configuration file (e.g. latin1)")
	cmd.Flags().Bool("waveform", false, "Include samples and timestamps")
	cmd.Flags().Bool("pretty", false, "Indent the JSON output")

	return cmd
}

// readOptional reads path, returning nil for an empty path
func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
