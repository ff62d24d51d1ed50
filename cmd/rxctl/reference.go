package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/rx-admin/internal/browser"
	"github.com/jwalitptl/rx-admin/internal/format"
	"github.com/jwalitptl/rx-admin/pkg/apiclient"
)

// newReferenceCommand lists patients or medications, the ids the
// prescription filters refer to
func newReferenceCommand(a *app, resource string) *cobra.Command {
	return &cobra.Command{
		Use:   resource,
		Short: "List " + resource + " available to prescriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.client()
			if err != nil {
				return err
			}
			header, rows, data, err := loadReference(ctx, client, resource)
			if err != nil {
				return err
			}
			if a.output == browser.FormatJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(data)
			}
			return renderTable(os.Stdout, header, rows)
		},
	}
}

func loadReference(ctx context.Context, c *apiclient.Client, resource string) ([]string, [][]string, interface{}, error) {
	if resource == "medications" {
		meds, err := c.Medications.GetAll(ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		rows := make([][]string, 0, len(meds))
		for _, m := range meds {
			rows = append(rows, []string{strconv.FormatInt(m.ID, 10), m.Code, m.Label})
		}
		return []string{"ID", "Code", "Label"}, rows, meds, nil
	}

	patients, err := c.Patients.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	rows := make([][]string, 0, len(patients))
	for _, p := range patients {
		birth := ""
		if p.BirthDate != nil {
			birth = format.Date(*p.BirthDate)
		}
		rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.FullName(), birth})
	}
	return []string{"ID", "Name", "Born"}, rows, patients, nil
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := io.WriteString(w, format.Count(len(rows), "row")+"\n")
	return err
}
