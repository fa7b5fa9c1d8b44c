package tickets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound = errors.New("season ticket not found")
	ErrInvalidTicket  = errors.New("team, venue, section and season are required and face value must be positive")
)

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

func (s *TicketService) Create(userID uuid.UUID, req CreateTicketRequest) (*SeasonTicket, error) {
	if strings.TrimSpace(req.Team) == "" || strings.TrimSpace(req.Venue) == "" ||
		strings.TrimSpace(req.Section) == "" || strings.TrimSpace(req.Season) == "" ||
		req.FaceValue <= 0 {
		return nil, ErrInvalidTicket
	}

	ticket := SeasonTicket{
		ID:         uuid.New(),
		UserID:     userID,
		Team:       strings.TrimSpace(req.Team),
		Venue:      strings.TrimSpace(req.Venue),
		Section:    strings.TrimSpace(req.Section),
		Row:        strings.TrimSpace(req.Row),
		Seat:       strings.TrimSpace(req.Seat),
		Season:     strings.TrimSpace(req.Season),
		GamesTotal: req.GamesTotal,
		FaceValue:  req.FaceValue,
		Notes:      req.Notes,
	}

	if err := s.db.Create(&ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create season ticket: %w", err)
	}
	return &ticket, nil
}

// Get is owner-scoped: someone else's ticket reads as not found.
func (s *TicketService) Get(userID, ticketID uuid.UUID) (*SeasonTicket, error) {
	var ticket SeasonTicket
	err := s.db.Where("id = ? AND user_id = ?", ticketID, userID).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("ticket lookup failed: %w", err)
	}
	return &ticket, nil
}

func (s *TicketService) List(userID uuid.UUID, limit, offset int) (*TicketListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.Model(&SeasonTicket{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("ticket count failed: %w", err)
	}

	var list []SeasonTicket
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("ticket list failed: %w", err)
	}

	return &TicketListResponse{Tickets: list, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *TicketService) Update(userID, ticketID uuid.UUID, req UpdateTicketRequest) (*SeasonTicket, error) {
	ticket, err := s.Get(userID, ticketID)
	if err != nil {
		return nil, err
	}

	if req.Team != nil {
		ticket.Team = strings.TrimSpace(*req.Team)
	}
	if req.Venue != nil {
		ticket.Venue = strings.TrimSpace(*req.Venue)
	}
	if req.Section != nil {
		ticket.Section = strings.TrimSpace(*req.Section)
	}
	if req.Row != nil {
		ticket.Row = strings.TrimSpace(*req.Row)
	}
	if req.Seat != nil {
		ticket.Seat = strings.TrimSpace(*req.Seat)
	}
	if req.Season != nil {
		ticket.Season = strings.TrimSpace(*req.Season)
	}
	if req.GamesTotal != nil {
		ticket.GamesTotal = *req.GamesTotal
	}
	if req.FaceValue != nil {
		ticket.FaceValue = *req.FaceValue
	}
	if req.Notes != nil {
		ticket.Notes = *req.Notes
	}

	if ticket.Team == "" || ticket.Venue == "" || ticket.Section == "" ||
		ticket.Season == "" || ticket.FaceValue <= 0 {
		return nil, ErrInvalidTicket
	}

	if err := s.db.Save(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to update season ticket: %w", err)
	}
	return ticket, nil
}

func (s *TicketService) Delete(userID, ticketID uuid.UUID) error {
	res := s.db.Where("id = ? AND user_id = ?", ticketID, userID).Delete(&SeasonTicket{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete season ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}
