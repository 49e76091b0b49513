package models

import (
	"log"

	"github.com/cardlotlabs/lotsales_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&CategoryCost{},
		&RecordCostOverride{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
