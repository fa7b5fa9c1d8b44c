package analytics

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/seatswap/seatswap-backend/internal/apps/listings"
	"github.com/seatswap/seatswap-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*AnalyticsService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &listings.Listing{}))
	return NewAnalyticsService(db), db
}

func seedListing(t *testing.T, db *gorm.DB, userID uuid.UUID, status string, price float64, soldAt *time.Time) {
	t.Helper()
	l := listings.Listing{
		ID:        uuid.New(),
		UserID:    userID,
		TicketID:  uuid.New(),
		EventName: "Timbers vs Sounders",
		EventDate: time.Now().AddDate(0, 1, 0),
		Price:     price,
		Status:    status,
		SoldAt:    soldAt,
	}
	require.NoError(t, db.Create(&l).Error)
}

func TestOverview(t *testing.T) {
	svc, db := newTestService(t)
	seller := uuid.New()
	now := time.Now()

	seedListing(t, db, seller, listings.StatusActive, 50, nil)
	seedListing(t, db, seller, listings.StatusSold, 60, &now)
	seedListing(t, db, seller, listings.StatusSold, 80, &now)
	seedListing(t, db, seller, listings.StatusCancelled, 40, nil)
	// Someone else's listing, must not leak into the overview.
	seedListing(t, db, uuid.New(), listings.StatusSold, 500, &now)

	o, err := svc.Overview(seller)
	require.NoError(t, err)
	require.EqualValues(t, 4, o.TotalListings)
	require.EqualValues(t, 1, o.Active)
	require.EqualValues(t, 2, o.Sold)
	require.EqualValues(t, 1, o.Cancelled)
	require.Equal(t, 140.0, o.Revenue)
	require.Equal(t, 70.0, o.AvgSalePrice)
	require.InDelta(t, 2.0/3.0, o.SellThroughRate, 1e-9)
}

func TestOverviewEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	o, err := svc.Overview(uuid.New())
	require.NoError(t, err)
	require.EqualValues(t, 0, o.TotalListings)
	require.Equal(t, 0.0, o.Revenue)
	require.Equal(t, 0.0, o.AvgSalePrice)
	require.Equal(t, 0.0, o.SellThroughRate)
}

func TestPriceTrends(t *testing.T) {
	svc, db := newTestService(t)
	seller := uuid.New()

	// Pin to mid-month so AddDate never normalizes across a month boundary.
	now := time.Now()
	thisMonth := time.Date(now.Year(), now.Month(), 15, 12, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	longAgo := thisMonth.AddDate(0, -10, 0)

	seedListing(t, db, seller, listings.StatusSold, 50, &thisMonth)
	seedListing(t, db, seller, listings.StatusSold, 100, &thisMonth)
	seedListing(t, db, seller, listings.StatusSold, 70, &lastMonth)
	// Outside the window, dropped.
	seedListing(t, db, seller, listings.StatusSold, 900, &longAgo)
	// Unsold, dropped.
	seedListing(t, db, seller, listings.StatusActive, 30, nil)

	trends, err := svc.PriceTrends(seller, 6)
	require.NoError(t, err)
	require.Len(t, trends, 2)

	require.Equal(t, lastMonth.Format("2006-01"), trends[0].Month)
	require.Equal(t, 1, trends[0].Sales)
	require.Equal(t, 70.0, trends[0].AvgPrice)

	require.Equal(t, thisMonth.Format("2006-01"), trends[1].Month)
	require.Equal(t, 2, trends[1].Sales)
	require.Equal(t, 75.0, trends[1].AvgPrice)
	require.Equal(t, 50.0, trends[1].MinPrice)
	require.Equal(t, 100.0, trends[1].MaxPrice)
}

func TestMarketplace(t *testing.T) {
	svc, db := newTestService(t)
	now := time.Now()

	for i := 0; i < 3; i++ {
		u := models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Password: "x"}
		require.NoError(t, db.Create(&u).Error)
	}
	seller := uuid.New()
	seedListing(t, db, seller, listings.StatusActive, 45, nil)
	seedListing(t, db, seller, listings.StatusSold, 55, &now)
	seedListing(t, db, uuid.New(), listings.StatusSold, 65, &now)

	m, err := svc.Marketplace()
	require.NoError(t, err)
	require.EqualValues(t, 3, m.TotalUsers)
	require.EqualValues(t, 3, m.TotalListings)
	require.EqualValues(t, 1, m.ActiveListings)
	require.EqualValues(t, 2, m.SoldListings)
	require.Equal(t, 120.0, m.TotalVolume)
}
