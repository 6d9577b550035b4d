package migration

import (
	"FoodBridge-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Donation{}); err != nil {
		log.Fatalf("Error migrating donation database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.DonationAcceptance{}); err != nil {
		log.Fatalf("Error migrating donation acceptance database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Insight{}); err != nil {
		log.Fatalf("Error migrating insight database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
