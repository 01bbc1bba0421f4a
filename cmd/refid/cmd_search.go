package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/localdex/internal/bootstrap"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/search/request"
	"github.com/kailas-cloud/localdex/internal/metrics"
	entityrepo "github.com/kailas-cloud/localdex/internal/repository/entity"
	"github.com/kailas-cloud/localdex/internal/transport/wire"
	searchuc "github.com/kailas-cloud/localdex/internal/usecase/search"
)

type searchOutput struct {
	Source string        `json:"source"`
	Items  []wire.Result `json:"items"`
}

func (a *app) searchCmd() *cobra.Command {
	var (
		lat, lng  float64
		limit     int
		localOnly bool
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Run one universal search the way the API does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var loc *geo.Point
			latSet, lngSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lng")
			if latSet != lngSet {
				return errors.New("search: --lat and --lng must be given together")
			}
			if latSet {
				p, err := geo.NewPoint(lat, lng)
				if err != nil {
					return fmt.Errorf("search: %w", err)
				}
				loc = &p
			}
			req, err := request.New(args[0], loc, limit)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			ctx := cmd.Context()
			cfg, store, logger, err := a.connect(ctx)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			defer store.Close()

			metrics.RegisterSearchMetrics()

			repos := entityrepo.NewAll(store)
			gateways := make([]searchuc.Gateway, 0, len(repos))
			for _, k := range kind.All() {
				gateways = append(gateways, repos[k])
			}

			var remote searchuc.RemoteSearcher
			if !localOnly {
				backend, err := bootstrap.NewRemote(cfg.Remote, logger)
				if err != nil {
					return fmt.Errorf("search: %w", err)
				}
				if backend != nil {
					remote = backend
				}
			}

			svc := searchuc.New(gateways, remote, searchuc.Config{
				RemoteTimeout:  cfg.Remote.Timeout(),
				GatewayTimeout: cfg.Search.GatewayTimeout(),
				MaxParallel:    cfg.Search.MaxParallel,
				ScanLimit:      cfg.Search.ScanLimit,
			}, logger)
			resp := svc.Search(ctx, &req)

			if a.jsonOut {
				return a.printJSON(searchOutput{Source: string(resp.Source), Items: wire.FromResults(resp.Results)})
			}
			for i := range resp.Results {
				r := &resp.Results[i]
				p := r.Projection()
				fmt.Fprintf(a.out, "[%d] (%.1f %s) %-12s %s\n", i+1, r.Score(), r.MatchType(), p.ReferenceID, p.Name)
				fmt.Fprintf(a.out, "    %s\n", p.Route)
			}
			for _, c := range resp.Collections {
				if !c.OK() {
					fmt.Fprintf(a.out, "warning: %s unavailable: %v\n", c.Kind.Collection(), c.Err)
				}
			}
			if len(resp.Results) == 0 {
				fmt.Fprintln(a.out, "No results found.")
			}
			fmt.Fprintf(a.out, "source: %s\n", resp.Source)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "caller latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "caller longitude")
	cmd.Flags().IntVar(&limit, "limit", 10, "max results")
	cmd.Flags().BoolVar(&localOnly, "local", false, "skip the remote tier and fan out to the local collections")
	return cmd
}
