package postgres

import (
	"fmt"

	"mercuri/internal/adapters/out/postgres/contactrepo"
	"mercuri/internal/adapters/out/postgres/offerrepo"
	"mercuri/internal/adapters/out/postgres/orderrepo"
	"mercuri/internal/adapters/out/postgres/riderrepo"

	"gorm.io/gorm"
)

// Migrate creates or extends the engine's tables. The accounts table is owned elsewhere;
// it is only created when missing so a standalone deployment can start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&offerrepo.OfferDTO{},
		&offerrepo.OfferEventDTO{},
		&riderrepo.RiderDTO{},
	); err != nil {
		return fmt.Errorf("migrate matching tables: %w", err)
	}

	if !db.Migrator().HasTable(&contactrepo.AccountDTO{}) {
		if err := db.Migrator().CreateTable(&contactrepo.AccountDTO{}); err != nil {
			return fmt.Errorf("create accounts table: %w", err)
		}
	}

	return nil
}
