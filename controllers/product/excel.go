package productcontroller

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/controllers"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

// sheetColumns maps accepted header spellings to record fields.
var sheetColumns = map[string]string{
	"name":           "name",
	"description":    "description",
	"price":          "price",
	"stockquantity":  "stockquantity",
	"stock_quantity": "stockquantity",
	"stock":          "stockquantity",
	"categoryid":     "categoryid",
	"category_id":    "categoryid",
}

// ParseProductSheet reads product records from the first sheet. The first
// row is a header naming the columns (name, description, price,
// stockquantity, categoryid, in any order; extra columns such as an ID are
// ignored). Blank rows are skipped; any malformed row rejects the sheet.
func ParseProductSheet(file *xlsx.File) ([]models.ProductRecord, error) {
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return nil, models.Invalid("excel file is empty or missing header row")
	}
	sheet := file.Sheets[0]

	index := make(map[string]int)
	for i, cell := range sheet.Rows[0].Cells {
		key := strings.ToLower(strings.TrimSpace(cell.String()))
		if field, ok := sheetColumns[key]; ok {
			index[field] = i
		}
	}
	for _, field := range []string{"name", "price", "stockquantity", "categoryid"} {
		if _, ok := index[field]; !ok {
			return nil, models.Invalid("excel header is missing the %s column", field)
		}
	}

	var records []models.ProductRecord
	for r := 1; r < len(sheet.Rows); r++ {
		row := sheet.Rows[r]
		if row == nil {
			continue
		}
		get := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(row.Cells) || row.Cells[i] == nil {
				return ""
			}
			return strings.TrimSpace(row.Cells[i].String())
		}

		name := get("name")
		if name == "" && get("price") == "" && get("categoryid") == "" {
			continue
		}
		line := r + 1
		price, err := decimal.NewFromString(get("price"))
		if err != nil {
			return nil, models.Invalid("row %d: invalid price %q", line, get("price"))
		}
		stock, err := strconv.Atoi(get("stockquantity"))
		if err != nil {
			return nil, models.Invalid("row %d: invalid stock quantity %q", line, get("stockquantity"))
		}
		categoryID, err := strconv.ParseUint(get("categoryid"), 10, 64)
		if err != nil {
			return nil, models.Invalid("row %d: invalid category id %q", line, get("categoryid"))
		}
		if err := validateProduct(name, price, stock); err != nil {
			return nil, models.Invalid("row %d: %v", line, err)
		}
		records = append(records, models.ProductRecord{
			Name:          name,
			Description:   get("description"),
			Price:         price.Round(2),
			StockQuantity: stock,
			CategoryID:    uint(categoryID),
		})
	}
	if len(records) == 0 {
		return nil, models.Invalid("excel file contains no products")
	}
	return records, nil
}

// ImportProducts hands the whole batch to the store's bulk import. Either
// every record is added or none is.
func ImportProducts(ctx context.Context, catalog store.CatalogStore, who models.Identity, records []models.ProductRecord) (int, error) {
	if err := who.Require(models.RoleAdmin); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, models.Invalid("no products to import")
	}
	for i, r := range records {
		if err := validateProduct(r.Name, r.Price, r.StockQuantity); err != nil {
			return 0, models.Invalid("record %d: %v", i+1, err)
		}
		if r.CategoryID == 0 {
			return 0, models.Invalid("record %d: category id is required", i+1)
		}
	}
	if err := catalog.BulkAddProducts(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// POST /admin/products/import
func ImportProductsHandler(catalog store.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		var records []models.ProductRecord
		if err := c.ShouldBindJSON(&records); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		n, err := ImportProducts(c.Request.Context(), catalog, sess.Identity, records)
		if err != nil {
			controllers.RespondError(c, err, "Failed to import products")
			return
		}
		log.Printf("📦 Imported %d products", n)
		c.JSON(http.StatusOK, gin.H{"message": "Import completed", "created_count": n})
	}
}

// POST /admin/products/import-excel
func ImportProductsFromExcel(catalog store.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := controllers.RequireSession(c)
		if !ok {
			return
		}
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		records, err := ParseProductSheet(xlFile)
		if err != nil {
			controllers.RespondError(c, err, "Failed to read Excel file")
			return
		}
		n, err := ImportProducts(c.Request.Context(), catalog, sess.Identity, records)
		if err != nil {
			controllers.RespondError(c, err, "Failed to import products")
			return
		}
		log.Printf("📦 Imported %d products from %s", n, excelFileHeader.Filename)
		c.JSON(http.StatusOK, gin.H{"message": "Import completed", "created_count": n})
	}
}
