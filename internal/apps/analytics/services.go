package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/seatswap/seatswap-backend/internal/apps/listings"
	"github.com/seatswap/seatswap-backend/internal/models"
	"gorm.io/gorm"
)

type SellerOverview struct {
	TotalListings   int64   `json:"total_listings"`
	Active          int64   `json:"active"`
	Sold            int64   `json:"sold"`
	Cancelled       int64   `json:"cancelled"`
	Revenue         float64 `json:"revenue"`
	AvgSalePrice    float64 `json:"avg_sale_price"`
	SellThroughRate float64 `json:"sell_through_rate"`
}

type MonthlyTrend struct {
	Month    string  `json:"month"`
	Sales    int     `json:"sales"`
	AvgPrice float64 `json:"avg_price"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

type MarketplaceStats struct {
	TotalUsers     int64   `json:"total_users"`
	TotalListings  int64   `json:"total_listings"`
	ActiveListings int64   `json:"active_listings"`
	SoldListings   int64   `json:"sold_listings"`
	TotalVolume    float64 `json:"total_volume"`
}

type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) Overview(userID uuid.UUID) (*SellerOverview, error) {
	var o SellerOverview

	base := s.db.Model(&listings.Listing{}).Where("user_id = ?", userID)
	if err := base.Count(&o.TotalListings).Error; err != nil {
		return nil, fmt.Errorf("listing count failed: %w", err)
	}

	counts := map[string]*int64{
		listings.StatusActive:    &o.Active,
		listings.StatusSold:      &o.Sold,
		listings.StatusCancelled: &o.Cancelled,
	}
	for status, dst := range counts {
		err := s.db.Model(&listings.Listing{}).
			Where("user_id = ? AND status = ?", userID, status).Count(dst).Error
		if err != nil {
			return nil, fmt.Errorf("listing count failed: %w", err)
		}
	}

	err := s.db.Model(&listings.Listing{}).
		Where("user_id = ? AND status = ?", userID, listings.StatusSold).
		Select("COALESCE(SUM(price), 0)").Scan(&o.Revenue).Error
	if err != nil {
		return nil, fmt.Errorf("revenue sum failed: %w", err)
	}

	if o.Sold > 0 {
		o.AvgSalePrice = o.Revenue / float64(o.Sold)
	}
	closed := o.Sold + o.Cancelled
	if closed > 0 {
		o.SellThroughRate = float64(o.Sold) / float64(closed)
	}

	return &o, nil
}

// PriceTrends buckets the caller's sales by month. Aggregation happens in
// Go so the date math stays portable across postgres and the sqlite used
// in tests.
func (s *AnalyticsService) PriceTrends(userID uuid.UUID, months int) ([]MonthlyTrend, error) {
	if months <= 0 || months > 24 {
		months = 6
	}
	cutoff := time.Now().AddDate(0, -months, 0)

	var sold []listings.Listing
	err := s.db.Where("user_id = ? AND status = ? AND sold_at >= ?",
		userID, listings.StatusSold, cutoff).Find(&sold).Error
	if err != nil {
		return nil, fmt.Errorf("sold listing fetch failed: %w", err)
	}

	buckets := make(map[string]*MonthlyTrend)
	for i := range sold {
		l := sold[i]
		if l.SoldAt == nil {
			continue
		}
		key := l.SoldAt.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyTrend{Month: key, MinPrice: l.Price, MaxPrice: l.Price}
			buckets[key] = b
		}
		b.Sales++
		b.AvgPrice += l.Price
		if l.Price < b.MinPrice {
			b.MinPrice = l.Price
		}
		if l.Price > b.MaxPrice {
			b.MaxPrice = l.Price
		}
	}

	trends := make([]MonthlyTrend, 0, len(buckets))
	for _, b := range buckets {
		b.AvgPrice /= float64(b.Sales)
		trends = append(trends, *b)
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Month < trends[j].Month })
	return trends, nil
}

func (s *AnalyticsService) Marketplace() (*MarketplaceStats, error) {
	var m MarketplaceStats

	if err := s.db.Model(&models.User{}).Count(&m.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("user count failed: %w", err)
	}
	if err := s.db.Model(&listings.Listing{}).Count(&m.TotalListings).Error; err != nil {
		return nil, fmt.Errorf("listing count failed: %w", err)
	}
	err := s.db.Model(&listings.Listing{}).
		Where("status = ?", listings.StatusActive).Count(&m.ActiveListings).Error
	if err != nil {
		return nil, fmt.Errorf("listing count failed: %w", err)
	}
	err = s.db.Model(&listings.Listing{}).
		Where("status = ?", listings.StatusSold).Count(&m.SoldListings).Error
	if err != nil {
		return nil, fmt.Errorf("listing count failed: %w", err)
	}
	err = s.db.Model(&listings.Listing{}).
		Where("status = ?", listings.StatusSold).
		Select("COALESCE(SUM(price), 0)").Scan(&m.TotalVolume).Error
	if err != nil {
		return nil, fmt.Errorf("volume sum failed: %w", err)
	}

	return &m, nil
}
