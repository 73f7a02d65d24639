package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRenderReport(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	report := &models.OrdersReport{
		From:      from,
		To:        from.AddDate(0, 0, 30),
		AllOrders: 3,
		AllAmount: decimal.RequireFromString("170.5"),
		PerCustomer: []models.UserOrderSummary{
			{UserID: 1, Username: "anna", TotalOrders: 2, TotalAmount: decimal.RequireFromString("150.5")},
			{UserID: 2, Username: "ben", TotalOrders: 1, TotalAmount: decimal.RequireFromString("20")},
		},
	}

	var buf bytes.Buffer
	renderReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "2024-03-31")
	assert.Contains(t, out, "anna")
	assert.Contains(t, out, "150.50")
	assert.Contains(t, out, "20.00")
	assert.Contains(t, out, "170.50")
}

func TestAllowsAnyOrigin(t *testing.T) {
	assert.True(t, allowsAnyOrigin([]string{"https://shop.example", "*"}))
	assert.False(t, allowsAnyOrigin([]string{"https://shop.example"}))
	assert.False(t, allowsAnyOrigin(nil))
}
