package tickets

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *TicketService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&SeasonTicket{}))
	return NewTicketService(db)
}

func validRequest() CreateTicketRequest {
	return CreateTicketRequest{
		Team:       "Portland Timbers",
		Venue:      "Providence Park",
		Section:    "107",
		Row:        "F",
		Seat:       "12",
		Season:     "2026",
		GamesTotal: 17,
		FaceValue:  850,
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	ticket, err := svc.Create(userID, validRequest())
	require.NoError(t, err)
	require.Equal(t, userID, ticket.UserID)
	require.Equal(t, "107", ticket.Section)

	got, err := svc.Get(userID, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, got.ID)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	req := validRequest()
	req.Team = "  "
	_, err := svc.Create(userID, req)
	require.ErrorIs(t, err, ErrInvalidTicket)

	req = validRequest()
	req.FaceValue = 0
	_, err = svc.Create(userID, req)
	require.ErrorIs(t, err, ErrInvalidTicket)
}

func TestGetIsOwnerScoped(t *testing.T) {
	svc := newTestService(t)
	owner := uuid.New()

	ticket, err := svc.Create(owner, validRequest())
	require.NoError(t, err)

	// Someone else's ticket reads as not found.
	_, err = svc.Get(uuid.New(), ticket.ID)
	require.ErrorIs(t, err, ErrTicketNotFound)
}

func TestListPagination(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(userID, validRequest())
		require.NoError(t, err)
	}
	_, err := svc.Create(uuid.New(), validRequest())
	require.NoError(t, err)

	resp, err := svc.List(userID, 2, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, resp.Total)
	require.Len(t, resp.Tickets, 2)
}

func TestUpdate(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	ticket, err := svc.Create(userID, validRequest())
	require.NoError(t, err)

	section := "204"
	face := 920.0
	updated, err := svc.Update(userID, ticket.ID, UpdateTicketRequest{Section: &section, FaceValue: &face})
	require.NoError(t, err)
	require.Equal(t, "204", updated.Section)
	require.Equal(t, 920.0, updated.FaceValue)

	bad := 0.0
	_, err = svc.Update(userID, ticket.ID, UpdateTicketRequest{FaceValue: &bad})
	require.ErrorIs(t, err, ErrInvalidTicket)

	_, err = svc.Update(uuid.New(), ticket.ID, UpdateTicketRequest{Section: &section})
	require.ErrorIs(t, err, ErrTicketNotFound)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	ticket, err := svc.Create(userID, validRequest())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(uuid.New(), ticket.ID), ErrTicketNotFound)
	require.NoError(t, svc.Delete(userID, ticket.ID))
	require.ErrorIs(t, svc.Delete(userID, ticket.ID), ErrTicketNotFound)
}
