// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ik5/audpeaks/waveform"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var showData bool

	cmd := &cobra.Command{
		Use:   "inspect <file.dat>",
		Short: "Print the header of a .dat file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			dat, err := waveform.ReadDat(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			printDat(cmd.OutOrStdout(), dat, showData)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showData, "data", false, "Also print every min/max pair")

	return cmd
}

func printDat(w io.Writer, d *waveform.Dat, showData bool) {
	h := d.Header

	fmt.Fprintf(w, "version:           %d\n", h.Version)
	fmt.Fprintf(w, "bits:              %d\n", h.Bits())
	fmt.Fprintf(w, "sample rate:       %d\n", h.SampleRate)
	fmt.Fprintf(w, "samples per pixel: %d\n", h.SamplesPerPixel)
	fmt.Fprintf(w, "length:            %d\n", h.Length)
	fmt.Fprintf(w, "channels:          %d\n", h.Channels)

	if h.SampleRate > 0 {
		seconds := float64(h.Length) * float64(h.SamplesPerPixel) / float64(h.SampleRate)
		fmt.Fprintf(w, "duration:          %.3fs\n", seconds)
	}

	if !showData {
		return
	}

	for c := range int(h.Channels) {
		for i := range int(h.Length) {
			lo, hi := d.Pair(c, i)
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", c, i, lo, hi)
		}
	}
}
