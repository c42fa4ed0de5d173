package simulation

import (
	"fmt"

	"dcmonitor/internal/catalog"
	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
)

// RackID formats "<room>-<column><row:02>", e.g. ROOM-001-C07.
func RackID(roomID, columnLabel string, row int) string {
	return fmt.Sprintf("%s-%s%02d", roomID, columnLabel, row)
}

// GenerateRackLayout returns the 17x10 grid of a room, row-major.
func GenerateRackLayout(roomID, dcID string) []domain.Rack {
	racks := make([]domain.Rack, 0, rack.Columns*rack.Rows)
	labels := rack.ColumnLabels()
	for row := 1; row <= rack.Rows; row++ {
		for col := 1; col <= rack.Columns; col++ {
			label := labels[col-1]
			racks = append(racks, domain.Rack{
				RackID:      RackID(roomID, label, row),
				RoomID:      roomID,
				DCID:        dcID,
				Row:         row,
				Col:         col,
				ColumnLabel: label,
				RackType:    domain.RackNormal,
				XCoordinate: col * 60,
				YCoordinate: row * 50,
			})
		}
	}
	return racks
}

// GenerateFacilityLayout returns the racks of every catalog room.
func GenerateFacilityLayout() []domain.Rack {
	var out []domain.Rack
	for _, r := range catalog.Rooms() {
		out = append(out, GenerateRackLayout(r.RoomID, r.DCID)...)
	}
	return out
}
