package adapters

import (
	"fmt"
	"maps"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/de-tools/shopping-atlas/pkg/models/store"
	"github.com/shopspring/decimal"
)

func MapDomainPurchaseToStoreRecord(rowID int64, p domain.Purchase) store.PurchaseRecord {
	return store.PurchaseRecord{
		RowID:      rowID,
		CustomerID: p.CustomerID,
		Age:        p.Age,
		Gender:     p.Gender,
		Category:   p.Category,
		Item:       p.Item,
		Amount:     p.Amount.String(),
		Season:     p.Season,
		Extra:      maps.Clone(p.Extra),
	}
}

func MapStoreRecordToDomainPurchase(record store.PurchaseRecord) (domain.Purchase, error) {
	amount, err := decimal.NewFromString(record.Amount)
	if err != nil {
		return domain.Purchase{}, fmt.Errorf("row %d amount %q: %w", record.RowID, record.Amount, err)
	}
	return domain.Purchase{
		CustomerID: record.CustomerID,
		Age:        record.Age,
		Gender:     record.Gender,
		Category:   record.Category,
		Item:       record.Item,
		Amount:     amount,
		Season:     record.Season,
		Extra:      maps.Clone(record.Extra),
	}, nil
}
