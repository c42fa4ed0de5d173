package service

import (
	"context"
	"fmt"

	"dcmonitor/internal/catalog"
	"dcmonitor/internal/domain"
	"dcmonitor/internal/repository"
	"dcmonitor/internal/simulation"
)

// FacilityService read-only view of data centers, rooms and rack layouts
type FacilityService interface {
	DataCenters(ctx context.Context) []domain.DataCenter
	Rooms(ctx context.Context, dcID string) ([]domain.Room, error)
	Racks(ctx context.Context, roomID string) ([]domain.Rack, error)
	Rack(ctx context.Context, rackID string) (*domain.Rack, error)
	// AllRacks every rack of every room
	AllRacks(ctx context.Context) []domain.Rack
}

type facilityService struct {
	racksByRoom map[string][]domain.Rack
	rackByID    map[string]domain.Rack
	all         []domain.Rack
}

// NewFacilityService generates the fixed layout of every catalog room once.
func NewFacilityService() FacilityService {
	s := &facilityService{
		racksByRoom: map[string][]domain.Rack{},
		rackByID:    map[string]domain.Rack{},
	}
	s.all = simulation.GenerateFacilityLayout()
	for _, r := range s.all {
		s.racksByRoom[r.RoomID] = append(s.racksByRoom[r.RoomID], r)
		s.rackByID[r.RackID] = r
	}
	return s
}

func (s *facilityService) DataCenters(_ context.Context) []domain.DataCenter {
	return catalog.DataCenters()
}

func (s *facilityService) Rooms(_ context.Context, dcID string) ([]domain.Room, error) {
	if _, ok := catalog.DataCenter(dcID); !ok {
		return nil, fmt.Errorf("data center %s: %w", dcID, repository.ErrNotFound)
	}
	return catalog.RoomsByDC(dcID), nil
}

func (s *facilityService) Racks(_ context.Context, roomID string) ([]domain.Rack, error) {
	racks, ok := s.racksByRoom[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, repository.ErrNotFound)
	}
	out := make([]domain.Rack, len(racks))
	copy(out, racks)
	return out, nil
}

func (s *facilityService) Rack(_ context.Context, rackID string) (*domain.Rack, error) {
	r, ok := s.rackByID[rackID]
	if !ok {
		return nil, fmt.Errorf("rack %s: %w", rackID, repository.ErrNotFound)
	}
	return &r, nil
}

func (s *facilityService) AllRacks(_ context.Context) []domain.Rack {
	out := make([]domain.Rack, len(s.all))
	copy(out, s.all)
	return out
}
