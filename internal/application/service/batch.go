package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	"github.com/tavolo-pos/tavolo-api/pkg/money"
)

// OrderBatch is one round of items added to an order, grouped by batch
// number for display and settlement.
type OrderBatch struct {
	BatchNo   int                `json:"batch_no"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []entity.OrderItem `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
}

// BuildBatches groups a flat list of order lines into batches by batch
// number, oldest first. When omitPaid is true, fully settled lines are
// dropped and a batch left with no lines is dropped with them. The batch
// subtotal covers only the lines kept.
func BuildBatches(items []entity.OrderItem, omitPaid bool) []OrderBatch {
	grouped := make(map[int][]entity.OrderItem)
	for _, item := range items {
		if omitPaid && item.UnpaidQuantity() <= 0 {
			continue
		}
		grouped[item.BatchNo] = append(grouped[item.BatchNo], item)
	}

	batchNos := make([]int, 0, len(grouped))
	for no := range grouped {
		batchNos = append(batchNos, no)
	}
	sort.Ints(batchNos)

	batches := make([]OrderBatch, 0, len(batchNos))
	for _, no := range batchNos {
		lines := grouped[no]
		subtotal := decimal.Zero
		createdAt := lines[0].CreatedAt
		for _, line := range lines {
			subtotal = subtotal.Add(money.Lines(line.UnitPrice, line.Quantity))
			if line.CreatedAt.Before(createdAt) {
				createdAt = line.CreatedAt
			}
		}
		batches = append(batches, OrderBatch{
			BatchNo:   no,
			CreatedAt: createdAt,
			Items:     lines,
			Subtotal:  money.Round2(subtotal),
		})
	}
	return batches
}
