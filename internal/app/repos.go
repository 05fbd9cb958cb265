package app

import (
	"gorm.io/gorm"

	catalogrepos "github.com/Tombstone73/quotevault-backend/internal/data/repos/catalog"
	orderrepos "github.com/Tombstone73/quotevault-backend/internal/data/repos/orders"
	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
)

type Repos struct {
	Product           catalogrepos.ProductRepo
	OptionTree        catalogrepos.OptionTreeRepo
	OrderLineItem     orderrepos.OrderLineItemRepo
	LineItemComponent orderrepos.LineItemComponentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Product:           catalogrepos.NewProductRepo(db, log),
		OptionTree:        catalogrepos.NewOptionTreeRepo(db, log),
		OrderLineItem:     orderrepos.NewOrderLineItemRepo(db, log),
		LineItemComponent: orderrepos.NewLineItemComponentRepo(db, log),
	}
}
