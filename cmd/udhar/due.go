package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"udhar-ledger/internal/adapter/export"
	"udhar-ledger/internal/usecase/loan"
)

type dueOptions struct {
	within  int
	remind  bool
	csvPath string
}

func newDueCmd(opts *rootOptions) *cobra.Command {
	o := &dueOptions{}
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List approved loans that are due, optionally reminding borrowers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, log, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			defer func() { _ = a.Close() }()

			list, err := a.Loans.ListDue(cmd.Context(), o.within)
			if err != nil {
				return err
			}
			if err := printDue(cmd.OutOrStdout(), list); err != nil {
				return err
			}
			if o.csvPath != "" {
				if err := writeDueCSV(o.csvPath, list); err != nil {
					return err
				}
			}
			if o.remind {
				n, err := a.Loans.SendDueReminders(cmd.Context(), o.within)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reminded %d borrower(s)\n", n)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&o.within, "within", 0, "include loans due within this many days from today")
	cmd.Flags().BoolVar(&o.remind, "remind", false, "send email/SMS reminders to the borrowers")
	cmd.Flags().StringVar(&o.csvPath, "csv", "", "also write the list to this CSV file")
	return cmd
}

func printDue(w io.Writer, list []loan.LoanDTO) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no loans due")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOAN\tBORROWER\tPHONE\tDUE\tTOTAL\tSTATUS")
	for _, l := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\n", l.LoanID, l.BorrowerName, l.Phone, l.DueDate, l.TotalPayable, l.PaymentStatus)
	}
	return tw.Flush()
}

func writeDueCSV(path string, list []loan.LoanDTO) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.WriteLoansCSV(f, list)
}
