package listings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/seatswap/seatswap-backend/internal/apps/tickets"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrTicketNotOwned  = errors.New("season ticket not found")
	ErrInvalidListing  = errors.New("event name is required, price must be positive and event date must be in the future")
	ErrListingClosed   = errors.New("listing is no longer active")
)

type ListingService struct {
	db *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

func (s *ListingService) Create(userID uuid.UUID, req CreateListingRequest) (*Listing, error) {
	if strings.TrimSpace(req.EventName) == "" || req.Price <= 0 || !req.EventDate.After(time.Now()) {
		return nil, ErrInvalidListing
	}

	// The listed seat must come from one of the caller's season tickets.
	var ticket tickets.SeasonTicket
	err := s.db.Where("id = ? AND user_id = ?", req.TicketID, userID).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotOwned
		}
		return nil, fmt.Errorf("ticket lookup failed: %w", err)
	}

	listing := Listing{
		ID:          uuid.New(),
		UserID:      userID,
		TicketID:    req.TicketID,
		EventName:   strings.TrimSpace(req.EventName),
		EventDate:   req.EventDate,
		Price:       req.Price,
		Status:      StatusActive,
		Description: req.Description,
	}

	if err := s.db.Create(&listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return &listing, nil
}

// Browse returns marketplace listings visible to any authenticated user.
func (s *ListingService) Browse(filter BrowseFilter) (*ListingListResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Status == "" {
		filter.Status = StatusActive
	}

	q := s.db.Model(&Listing{}).Where("listings.status = ?", filter.Status)
	if filter.MaxPrice > 0 {
		q = q.Where("listings.price <= ?", filter.MaxPrice)
	}
	if filter.Section != "" {
		q = q.Joins("JOIN season_tickets ON season_tickets.id = listings.ticket_id").
			Where("season_tickets.section = ?", filter.Section)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("listing count failed: %w", err)
	}

	var list []Listing
	err := q.Order("listings.event_date ASC").
		Limit(filter.Limit).Offset(filter.Offset).Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("listing browse failed: %w", err)
	}

	return &ListingListResponse{Listings: list, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *ListingService) Mine(userID uuid.UUID, limit, offset int) (*ListingListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := s.db.Model(&Listing{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("listing count failed: %w", err)
	}

	var list []Listing
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("listing list failed: %w", err)
	}

	return &ListingListResponse{Listings: list, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *ListingService) Get(listingID uuid.UUID) (*Listing, error) {
	var listing Listing
	if err := s.db.First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("listing lookup failed: %w", err)
	}
	return &listing, nil
}

func (s *ListingService) getOwned(userID, listingID uuid.UUID) (*Listing, error) {
	var listing Listing
	err := s.db.Where("id = ? AND user_id = ?", listingID, userID).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("listing lookup failed: %w", err)
	}
	return &listing, nil
}

func (s *ListingService) Update(userID, listingID uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	listing, err := s.getOwned(userID, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != StatusActive {
		return nil, ErrListingClosed
	}

	if req.EventName != nil {
		listing.EventName = strings.TrimSpace(*req.EventName)
	}
	if req.EventDate != nil {
		listing.EventDate = *req.EventDate
	}
	if req.Price != nil {
		listing.Price = *req.Price
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}

	if listing.EventName == "" || listing.Price <= 0 {
		return nil, ErrInvalidListing
	}

	if err := s.db.Save(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return listing, nil
}

// MarkSold moves an active listing to its terminal sold state, recording
// the sale time and, when given, the final negotiated price.
func (s *ListingService) MarkSold(userID, listingID uuid.UUID, req MarkSoldRequest) (*Listing, error) {
	listing, err := s.getOwned(userID, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != StatusActive {
		return nil, ErrListingClosed
	}
	if req.FinalPrice != nil {
		if *req.FinalPrice <= 0 {
			return nil, ErrInvalidListing
		}
		listing.Price = *req.FinalPrice
	}

	now := time.Now()
	listing.Status = StatusSold
	listing.SoldAt = &now

	if err := s.db.Save(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to mark listing sold: %w", err)
	}
	return listing, nil
}

func (s *ListingService) Cancel(userID, listingID uuid.UUID) (*Listing, error) {
	listing, err := s.getOwned(userID, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != StatusActive {
		return nil, ErrListingClosed
	}

	listing.Status = StatusCancelled
	if err := s.db.Save(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel listing: %w", err)
	}
	return listing, nil
}
