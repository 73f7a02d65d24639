package adminController

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
)

// ParseRange reads an inclusive YYYY-MM-DD date range.
func ParseRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return time.Time{}, time.Time{}, models.Invalid("from must be a date like 2024-01-31")
	}
	end, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return time.Time{}, time.Time{}, models.Invalid("to must be a date like 2024-01-31")
	}
	return start, end, nil
}

// OrdersSummary reports per customer how many orders they placed between
// from and to (both days included) and what they spent, plus overall totals.
// Cancelled orders are counted like any other.
func OrdersSummary(ctx context.Context, st store.OrderStore, who models.Identity, from, to time.Time) (*models.OrdersReport, error) {
	if err := who.Require(models.RoleAdmin); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, models.ErrInvalidRange
	}
	rows, err := st.OrdersSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &models.OrdersReport{From: from, To: to, PerCustomer: rows}
	if report.PerCustomer == nil {
		report.PerCustomer = []models.UserOrderSummary{}
	}
	for _, row := range rows {
		report.AllOrders += row.TotalOrders
		report.AllAmount = report.AllAmount.Add(row.TotalAmount)
	}
	return report, nil
}

// GET /admin/reports/orders-summary?from=&to=
func OrdersSummaryHandler(st store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		from, to, err := ParseRange(c.Query("from"), c.Query("to"))
		if err != nil {
			controllers.RespondError(c, err, "Invalid date range")
			return
		}
		report, err := OrdersSummary(c.Request.Context(), st, sess.Identity, from, to)
		if err != nil {
			controllers.RespondError(c, err, "Failed to build orders summary")
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
