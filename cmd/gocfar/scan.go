package main

import (
	"github.com/spf13/cobra"

	"github.com/hed1ad/gocfar/pkg/io/csv"
)

func newScanCmd(root *rootOptions) *cobra.Command {
	var (
		input  string
		column int
		header bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan range profiles stored in a CSV file",
		Long: `Scan reads range profiles from a CSV file, one profile per row, or a
single profile from one column with --column, and writes one decision
per cell.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			det, err := root.detector()
			if err != nil {
				return err
			}

			opts := []csv.Option{csv.WithHeader(header)}
			if column >= 0 {
				opts = append(opts, csv.WithColumn(column))
			}
			r, err := csv.NewReader(input, opts...)
			if err != nil {
				return err
			}
			defer r.Close()

			data, err := r.Read()
			if err != nil {
				return err
			}

			w, err := root.writer()
			if err != nil {
				return err
			}

			profiles := make(chan []float64, len(data))
			for _, p := range data {
				profiles <- p
			}
			close(profiles)

			if err := pipeline(cmd.Context(), det, profiles, w); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV file with range profiles")
	cmd.Flags().IntVar(&column, "column", -1, "read this column as a single profile")
	cmd.Flags().BoolVar(&header, "header", false, "skip a header row")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
