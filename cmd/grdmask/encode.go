package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/gridmask/mask"
)

var encodeCmd = &cobra.Command{
	Use:   "encode OUTSIDE EDGE INSIDE",
	Short: "Print the -N token for a set of mask values",
	Long: `Encode the outside, edge and inside mask values into the engine's -N option.

Each value is a number, NaN, z (take the polygon Z value) or id (take the running
polygon ID). Only edge and inside may be z or id, and both must then use the same mode.

Examples:
  grdmask encode 0 0 1      # -N0/0/1
  grdmask encode NaN id id  # -NP/NaN
  grdmask encode 0 0 z      # -Nz`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make([]mask.Value, len(args))
		for i, a := range args {
			v, err := mask.ParseValue(a)
			if err != nil {
				return err
			}
			values[i] = v
		}

		tok, err := mask.Encode(values[0], values[1], values[2])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok.Arg())

		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode TOKEN",
	Short: "Print the mask values expressed by a -N token",
	Long: `Decode a -N token, with or without the leading "-N", into its outside, edge and
inside values.

Examples:
  grdmask decode -- -NP/NaN  # outside=NaN edge=UseRunningID inside=UseRunningID
  grdmask decode z           # outside=0 edge=0 inside=UseZValue`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := mask.Decode(strings.TrimPrefix(args[0], "-"+mask.OptionName))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "outside=%s edge=%s inside=%s\n", s.Outside, s.Edge, s.Inside)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
}
