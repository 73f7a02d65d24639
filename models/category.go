package models

type Category struct {
	ID   uint   `gorm:"column:categoryid;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:categoryname;size:100;uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string { return "categories" }
