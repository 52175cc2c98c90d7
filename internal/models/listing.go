package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing описывает услугу фрилансера с тремя тарифами.
// Стандартный тариф обязателен, deluxe и premium опциональны.
type Listing struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	FreelancerID    uuid.UUID  `db:"freelancer_id" json:"freelancer_id"`
	ListingID       string     `db:"listing_id" json:"listing_id"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description"`
	Category        string     `db:"category" json:"category"`
	StandardPrice   int64      `db:"standard_price" json:"standard_price"`
	DeluxePrice     *int64     `db:"deluxe_price" json:"deluxe_price,omitempty"`
	PremiumPrice    *int64     `db:"premium_price" json:"premium_price,omitempty"`
	Active          bool       `db:"active" json:"active"`
	TotalOrders     int64      `db:"total_orders" json:"total_orders"`
	CompletedOrders int64      `db:"completed_orders" json:"completed_orders"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// ListingUpdate — частичное обновление объявления.
// nil означает «оставить как есть», отсутствующее поле никогда не трактуется
// как «очистить».
type ListingUpdate struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Category      *string `json:"category,omitempty"`
	StandardPrice *int64  `json:"standard_price,omitempty"`
	DeluxePrice   *int64  `json:"deluxe_price,omitempty"`
	PremiumPrice  *int64  `json:"premium_price,omitempty"`
	Active        *bool   `json:"active,omitempty"`
}

// IsEmpty сообщает, что обновление не содержит ни одного поля.
func (u ListingUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil &&
		u.StandardPrice == nil && u.DeluxePrice == nil && u.PremiumPrice == nil &&
		u.Active == nil
}

// PriceFor возвращает цену выбранного тарифа. Для отсутствующего
// опционального тарифа возвращает ok=false.
func (l *Listing) PriceFor(packageType string) (int64, bool) {
	switch packageType {
	case PackageStandard:
		return l.StandardPrice, true
	case PackageDeluxe:
		if l.DeluxePrice == nil {
			return 0, false
		}
		return *l.DeluxePrice, true
	case PackagePremium:
		if l.PremiumPrice == nil {
			return 0, false
		}
		return *l.PremiumPrice, true
	}
	return 0, false
}
