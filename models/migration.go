package models

import (
	"log"

	"bitbucket.org/mmdatafocus/payables_backend/config"
)

// MigrateDatabase keeps the schema in sync with the model structs.
func MigrateDatabase() error {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Vendor{},
		&PurchaseOrder{},
		&PurchaseOrderItem{},
		&Payment{},
	)
	if err != nil {
		return err
	}
	log.Println("database migration completed")
	return nil
}
