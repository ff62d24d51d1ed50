package main

import (
	"context"
	"net/url"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jwalitptl/rx-admin/internal/browser"
	"github.com/jwalitptl/rx-admin/internal/filter"
	"github.com/jwalitptl/rx-admin/internal/model"
)

// listOptions mirrors the filter surface as flags
type listOptions struct {
	patient    int64
	medication int64
	status     string
	page       int
	pageSize   int
	groups     [2]groupOptions
	// query holds raw listing parameters applied over the flags
	query string
}

type groupOptions struct {
	op   string
	date string
	from string
	to   string
}

func (o *groupOptions) register(flags *pflag.FlagSet, g filter.Group) {
	name := g.String()
	flags.StringVar(&o.op, name+"-op", string(g.DefaultOperator()), "Operator on "+name+" date [gte, lte, gt, lt, equals, interval]")
	flags.StringVar(&o.date, name, "", "Compare "+name+" date with this date (YYYY-MM-DD)")
	flags.StringVar(&o.from, name+"-from", "", "Lower bound of the "+name+" date interval")
	flags.StringVar(&o.to, name+"-to", "", "Upper bound of the "+name+" date interval")
}

func newListCommand(a *app) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prescriptions once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := opts.filters()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return a.list(ctx, set, opts.page, opts.pageSize)
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&opts.patient, "patient", 0, "Patient id")
	flags.Int64Var(&opts.medication, "medication", 0, "Medication id")
	flags.StringVar(&opts.status, "status", "", "Status [valide, en_attente, suppr]")
	flags.IntVar(&opts.page, "page", 1, "Page number")
	flags.IntVar(&opts.pageSize, "page-size", model.DefaultPageSize, "Rows per page [10, 20, 50, 100]")
	for _, g := range filter.Groups {
		opts.groups[g].register(flags, g)
	}
	flags.StringVar(&opts.query, "query", "", "Raw filter parameters, e.g. end_date_lt=2025-01-01&status=valide (unknown keys are ignored)")
	return cmd
}

// filters folds the flags through the same state transitions the
// interactive browser uses.
func (o listOptions) filters() (filter.Set, error) {
	if o.status != "" && !model.PrescriptionStatus(o.status).Valid() {
		return nil, errors.Errorf("unknown status %q", o.status)
	}

	st := filter.NewState()
	st, _ = st.WithScalar(filter.KeyStatus, o.status)
	st, _ = st.WithScalar(filter.KeyPatient, formatID(o.patient))
	st, _ = st.WithScalar(filter.KeyMedication, formatID(o.medication))

	for _, g := range filter.Groups {
		gopts := o.groups[g]
		op, err := filter.ParseOperator(gopts.op)
		if err != nil {
			return nil, err
		}
		for _, d := range []string{gopts.date, gopts.from, gopts.to} {
			if d == "" {
				continue
			}
			if _, err := model.ParseDate(d); err != nil {
				return nil, err
			}
		}
		st, _ = st.WithOperator(g, op)

		if op == filter.OpInterval {
			if gopts.date != "" {
				return nil, errors.Errorf("--%s needs a single-date operator, use --%s-from and --%s-to", g, g, g)
			}
			st, _ = st.WithIntervalBound(g, filter.From, gopts.from)
			st, _ = st.WithIntervalBound(g, filter.To, gopts.to)
			continue
		}
		if gopts.from != "" || gopts.to != "" {
			return nil, errors.Errorf("--%s-from and --%s-to need --%s-op interval", g, g, g)
		}
		st, _ = st.WithDate(g, gopts.date)
	}

	set := st.Filters()
	if o.query == "" {
		return set, nil
	}
	q, err := url.ParseQuery(o.query)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --query")
	}
	for k, v := range filter.ParseSet(q) {
		if k == filter.KeyPage || k == filter.KeyPageSize {
			continue
		}
		set[k] = v
	}
	return set, nil
}

func formatID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func (a *app) list(ctx context.Context, set filter.Set, page, pageSize int) error {
	writer, err := browser.NewWriter(a.output)
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	params := model.PageParams{Page: page, PageSize: pageSize}.Normalize()
	result, err := client.Prescriptions.List(ctx, set.WithPage(params.Page, params.PageSize))
	if err != nil {
		return errors.Wrap(err, "failed to load prescriptions")
	}
	a.log.Debug("prescriptions loaded", "query", set.String(), "count", result.Count)

	return writer.WriteView(os.Stdout, browser.View{
		Filters:    set,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: model.TotalPages(result.Count, params.PageSize),
		Count:      result.Count,
		Results:    result.Results,
	})
}
