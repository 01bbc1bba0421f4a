package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
)

var errInvalidIDs = errors.New("invalid reference ids")

type decoded struct {
	ReferenceID  string `json:"referenceId"`
	Valid        bool   `json:"valid"`
	Kind         string `json:"kind,omitempty"`
	DistrictCode string `json:"districtCode,omitempty"`
	Sequence     int    `json:"sequence,omitempty"`
	Route        string `json:"route"`
}

func decodeOne(raw string) decoded {
	out := decoded{ReferenceID: raw, Route: refid.RoutePath(raw)}
	if p, ok := refid.Decode(raw); ok {
		out.Valid = true
		out.Kind = p.Kind.String()
		out.DistrictCode = p.DistrictCode
		out.Sequence = p.Sequence
	}
	return out
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <kind> <district> <issued>",
		Short: "Build the reference id that follows <issued> ids in a partition",
		Example: `  refid encode product Mandsaur 23   # PRD-MAN-024
  refid encode offices "Bhopal" 2     # OFC-BHO-003`,
		Args: cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			k, err := kind.Parse(args[0])
			if err != nil {
				return err
			}
			issued, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("issued must be an integer: %w", err)
			}
			id, err := refid.Encode(k, args[1], issued)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(decodeOne(string(id)))
			}
			_, err = fmt.Fprintln(a.out, id)
			return err
		},
	}
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <id>",
		Short: "Split a reference id into kind, district code and sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			d := decodeOne(args[0])
			if a.jsonOut {
				if err := a.printJSON(d); err != nil {
					return err
				}
			} else if d.Valid {
				fmt.Fprintf(a.out, "kind:     %s\ndistrict: %s\nsequence: %d\nroute:    %s\n",
					d.Kind, d.DistrictCode, d.Sequence, d.Route)
			}
			if !d.Valid {
				return fmt.Errorf("%q: %w", args[0], errInvalidIDs)
			}
			return nil
		},
	}
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <id>...",
		Short: "Check reference ids against the grammar; fails if any is invalid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			results := make([]decoded, 0, len(args))
			bad := 0
			for _, raw := range args {
				d := decodeOne(raw)
				if !d.Valid {
					bad++
				}
				results = append(results, d)
			}
			if a.jsonOut {
				if err := a.printJSON(results); err != nil {
					return err
				}
			} else {
				for _, d := range results {
					status := "ok"
					if !d.Valid {
						status = "invalid"
					}
					fmt.Fprintf(a.out, "%-16s %s\n", d.ReferenceID, status)
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d: %w", bad, len(args), errInvalidIDs)
			}
			return nil
		},
	}
}

func (a *app) routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <id>",
		Short: "Print the detail page path for a reference id",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if a.jsonOut {
				return a.printJSON(decodeOne(args[0]))
			}
			_, err := fmt.Fprintln(a.out, refid.RoutePath(args[0]))
			return err
		},
	}
}
