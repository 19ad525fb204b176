package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aria/internal/domain"
	"aria/internal/export"
)

func newListCmd(a *app) *cobra.Command {
	var (
		status string
		offset int
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending mints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 || limit > 500 {
				limit = 50
			}
			items, total, err := a.svc.List(cmd.Context(), domain.PendingMintStatus(status), offset, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"items":  items,
					"total":  total,
					"offset": offset,
					"limit":  limit,
				})
			}
			return writeTable(cmd.OutOrStdout(), items, total)
		},
	}
	cmd.Flags().StringVar(&status, "status", string(domain.PendingMintStatusPending), "filter by status: pending, resolved, abandoned (empty for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "offset for pagination")
	cmd.Flags().IntVar(&limit, "limit", 50, "limit for pagination (max 500)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one pending mint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
}

func newRetryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Re-invoke the minter for a pending mint",
		Long: `Retry runs the minting executable again with the stored recipient and content id.
On success the entry is marked resolved with the new transaction id. On failure the
attempt is recorded and the entry stays pending.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.svc.Retry(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "resolved %s: tx %s\n", p.ID, deref(p.TxID))
			return nil
		},
	}
}

func newAbandonCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <id>",
		Short: "Close a pending mint without minting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.svc.Abandon(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "abandoned %s\n", p.ID)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
		status string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export pending mints to CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if out == "" {
				out = export.BuildFilename(f, time.Now())
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			n, err := a.svc.Export(cmd.Context(), file, f, domain.PendingMintStatus(status))
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "output format: csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default pending_mints_<date>.<format>)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (empty for all)")
	return cmd
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid pending mint id %q: %w", raw, err)
	}
	return id, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, items []domain.PendingMint, total int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tATTEMPTS\tRECIPIENT\tCONTENT ID\tCREATED\tLAST ERROR")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			p.ID, p.Status, p.Attempts, p.Recipient, p.ContentID,
			p.CreatedAt.Format(time.RFC3339), truncate(p.LastError, 60))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d\n", len(items), total)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
