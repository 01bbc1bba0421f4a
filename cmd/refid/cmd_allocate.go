package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	sequencerepo "github.com/kailas-cloud/localdex/internal/repository/sequence"
	entityuc "github.com/kailas-cloud/localdex/internal/usecase/entity"
)

type allocation struct {
	Partition   string `json:"partition"`
	Issued      int64  `json:"issued"`
	ReferenceID string `json:"referenceId,omitempty"`
	DryRun      bool   `json:"dryRun"`
}

func (a *app) allocateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "allocate <kind> <district>",
		Short: "Reserve the next reference id in a partition",
		Long: "Reserve the next reference id in a partition by advancing its counter.\n" +
			"The id is spent even if no entity is ever stored under it.\n" +
			"With --dry-run the counter is only read.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kind.Parse(args[0])
			if err != nil {
				return err
			}
			district := args[1]

			ctx := cmd.Context()
			_, store, logger, err := a.connect(ctx)
			if err != nil {
				return fmt.Errorf("allocate: %w", err)
			}
			defer store.Close()

			svc := entityuc.New(nil, sequencerepo.New(store), logger)

			var out allocation
			if dryRun {
				alloc, err := svc.Peek(ctx, k, district)
				if err != nil {
					return fmt.Errorf("allocate: %w", err)
				}
				out = allocation{Partition: alloc.Partition, Issued: alloc.Issued, ReferenceID: string(alloc.Next), DryRun: true}
			} else {
				id, err := svc.Reserve(ctx, k, district)
				if err != nil {
					return fmt.Errorf("allocate: %w", err)
				}
				out = allocation{Partition: refid.Partition(k, district), ReferenceID: string(id)}
				if p, ok := refid.Decode(string(id)); ok {
					out.Issued = int64(p.Sequence)
				}
			}

			if a.jsonOut {
				return a.printJSON(out)
			}
			if dryRun {
				fmt.Fprintf(a.out, "%s: %d issued, next %s\n", out.Partition, out.Issued, out.ReferenceID)
				return nil
			}
			_, err = fmt.Fprintln(a.out, out.ReferenceID)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the next id without advancing the counter")
	return cmd
}
