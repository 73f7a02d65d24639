package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/junaidrashid-git/storefront/models"
)

// renderReport prints the orders summary as a table with a totals footer.
func renderReport(w io.Writer, report *models.OrdersReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Orders %s to %s", report.From.Format(time.DateOnly), report.To.Format(time.DateOnly)))
	t.AppendHeader(table.Row{"User ID", "Username", "Orders", "Amount"})
	for _, row := range report.PerCustomer {
		t.AppendRow(table.Row{row.UserID, row.Username, row.TotalOrders, row.TotalAmount.StringFixed(2)})
	}
	t.AppendFooter(table.Row{"", "Total", report.AllOrders, report.AllAmount.StringFixed(2)})
	t.SetStyle(table.StyleLight)
	t.Render()
}
