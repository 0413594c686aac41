package delivery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"delivery-backend/models"
)

// Quote is a computed delivery price.
type Quote struct {
	DistanceKm float64         `json:"distance_km"`
	Fee        decimal.Decimal `json:"delivery_fee"`
}

// Quoter prices a client address for an establishment using its stored
// delivery ranges.
type Quoter struct {
	DB         *gorm.DB
	Calculator *Calculator
}

func NewQuoter(db *gorm.DB, calc *Calculator) *Quoter {
	return &Quoter{DB: db, Calculator: calc}
}

// FeeTableFor loads the establishment's ranges into a lookup table.
func (q *Quoter) FeeTableFor(ctx context.Context, establishmentID uuid.UUID) (*FeeTable, error) {
	var ranges []models.DeliveryRange
	if err := q.DB.WithContext(ctx).
		Where("establishment_id = ?", establishmentID).
		Order("min_distance ASC, max_distance ASC").
		Find(&ranges).Error; err != nil {
		return nil, fmt.Errorf("load delivery ranges: %w", err)
	}
	return NewFeeTable(ranges), nil
}

// Quote computes the distance, then looks the fee up. The distance is
// rounded only in the returned Quote.
func (q *Quoter) Quote(ctx context.Context, est *models.Establishment, clientAddress string) (Quote, error) {
	km, err := q.Calculator.DistanceKm(ctx, est, clientAddress)
	if err != nil {
		return Quote{}, err
	}
	table, err := q.FeeTableFor(ctx, est.ID)
	if err != nil {
		return Quote{}, err
	}
	fee, err := table.Fee(km)
	if err != nil {
		return Quote{}, err
	}
	return Quote{DistanceKm: RoundKm(km), Fee: fee}, nil
}
