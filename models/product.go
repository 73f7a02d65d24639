package models

import "github.com/shopspring/decimal"

type Product struct {
	ID            uint            `gorm:"column:productid;primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"column:name;size:255;not null" json:"name"`
	Description   string          `gorm:"column:description;type:text" json:"description"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;check:chk_products_price,price >= 0" json:"price"`
	StockQuantity int             `gorm:"column:stockquantity;not null;default:0;check:chk_products_stock,stockquantity >= 0" json:"stock_quantity"`
	CategoryID    uint            `gorm:"column:categoryid;index;not null" json:"category_id"`
	Category      *Category       `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
}

func (Product) TableName() string { return "products" }

// ProductRecord is one element of a bulk import payload. The JSON field
// names are the ones bulk_add_products reads.
type ProductRecord struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockquantity"`
	CategoryID    uint            `json:"categoryid"`
}

// ProductName is the slim row used for typo-tolerant matching.
type ProductName struct {
	ID   uint   `gorm:"column:productid"`
	Name string `gorm:"column:name"`
}
