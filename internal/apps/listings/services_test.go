package listings

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/seatswap/seatswap-backend/internal/apps/tickets"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*ListingService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tickets.SeasonTicket{}, &Listing{}))
	return NewListingService(db), db
}

func seedTicket(t *testing.T, db *gorm.DB, userID uuid.UUID, section string) *tickets.SeasonTicket {
	t.Helper()
	ticket := &tickets.SeasonTicket{
		ID:        uuid.New(),
		UserID:    userID,
		Team:      "Portland Timbers",
		Venue:     "Providence Park",
		Section:   section,
		Season:    "2026",
		FaceValue: 850,
	}
	require.NoError(t, db.Create(ticket).Error)
	return ticket
}

func validListing(ticketID uuid.UUID) CreateListingRequest {
	return CreateListingRequest{
		TicketID:  ticketID,
		EventName: "Timbers vs Sounders",
		EventDate: time.Now().AddDate(0, 0, 21),
		Price:     65,
	}
}

func TestCreateRequiresOwnedTicket(t *testing.T) {
	svc, db := newTestService(t)
	owner := uuid.New()
	ticket := seedTicket(t, db, owner, "107")

	listing, err := svc.Create(owner, validListing(ticket.ID))
	require.NoError(t, err)
	require.Equal(t, StatusActive, listing.Status)

	// Listing against someone else's season ticket is rejected.
	_, err = svc.Create(uuid.New(), validListing(ticket.ID))
	require.ErrorIs(t, err, ErrTicketNotOwned)
}

func TestCreateValidation(t *testing.T) {
	svc, db := newTestService(t)
	owner := uuid.New()
	ticket := seedTicket(t, db, owner, "107")

	req := validListing(ticket.ID)
	req.Price = 0
	_, err := svc.Create(owner, req)
	require.ErrorIs(t, err, ErrInvalidListing)

	req = validListing(ticket.ID)
	req.EventDate = time.Now().AddDate(0, 0, -1)
	_, err = svc.Create(owner, req)
	require.ErrorIs(t, err, ErrInvalidListing)
}

func TestBrowseFilters(t *testing.T) {
	svc, db := newTestService(t)
	seller := uuid.New()
	cheapSeat := seedTicket(t, db, seller, "107")
	premiumSeat := seedTicket(t, db, seller, "201")

	cheap := validListing(cheapSeat.ID)
	cheap.Price = 40
	_, err := svc.Create(seller, cheap)
	require.NoError(t, err)

	premium := validListing(premiumSeat.ID)
	premium.Price = 150
	_, err = svc.Create(seller, premium)
	require.NoError(t, err)

	// Price cap
	resp, err := svc.Browse(BrowseFilter{MaxPrice: 100})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Total)
	require.Equal(t, 40.0, resp.Listings[0].Price)

	// Section filter via the season ticket join
	resp, err = svc.Browse(BrowseFilter{Section: "201"})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Total)
	require.Equal(t, 150.0, resp.Listings[0].Price)

	// Default: all active
	resp, err = svc.Browse(BrowseFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 2, resp.Total)
}

func TestBrowseExcludesClosedListings(t *testing.T) {
	svc, db := newTestService(t)
	seller := uuid.New()
	ticket := seedTicket(t, db, seller, "107")

	listing, err := svc.Create(seller, validListing(ticket.ID))
	require.NoError(t, err)
	_, err = svc.Cancel(seller, listing.ID)
	require.NoError(t, err)

	resp, err := svc.Browse(BrowseFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 0, resp.Total)
}

func TestMarkSold(t *testing.T) {
	svc, db := newTestService(t)
	seller := uuid.New()
	ticket := seedTicket(t, db, seller, "107")

	listing, err := svc.Create(seller, validListing(ticket.ID))
	require.NoError(t, err)

	final := 72.5
	sold, err := svc.MarkSold(seller, listing.ID, MarkSoldRequest{FinalPrice: &final})
	require.NoError(t, err)
	require.Equal(t, StatusSold, sold.Status)
	require.Equal(t, 72.5, sold.Price)
	require.NotNil(t, sold.SoldAt)

	// sold is terminal
	_, err = svc.MarkSold(seller, listing.ID, MarkSoldRequest{})
	require.ErrorIs(t, err, ErrListingClosed)
	_, err = svc.Cancel(seller, listing.ID)
	require.ErrorIs(t, err, ErrListingClosed)
	_, err = svc.Update(seller, listing.ID, UpdateListingRequest{})
	require.ErrorIs(t, err, ErrListingClosed)
}

func TestUpdateActiveListing(t *testing.T) {
	svc, db := newTestService(t)
	seller := uuid.New()
	ticket := seedTicket(t, db, seller, "107")

	listing, err := svc.Create(seller, validListing(ticket.ID))
	require.NoError(t, err)

	price := 80.0
	updated, err := svc.Update(seller, listing.ID, UpdateListingRequest{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 80.0, updated.Price)

	// Not the owner: not found.
	_, err = svc.Update(uuid.New(), listing.ID, UpdateListingRequest{Price: &price})
	require.ErrorIs(t, err, ErrListingNotFound)
}

func TestMineIncludesClosedListings(t *testing.T) {
	svc, db := newTestService(t)
	seller := uuid.New()
	ticket := seedTicket(t, db, seller, "107")

	_, err := svc.Create(seller, validListing(ticket.ID))
	require.NoError(t, err)
	closed, err := svc.Create(seller, validListing(ticket.ID))
	require.NoError(t, err)
	_, err = svc.Cancel(seller, closed.ID)
	require.NoError(t, err)

	resp, err := svc.Mine(seller, 20, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, resp.Total)
}
