package catalog

import (
	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"
)

// RacksPerRoom every room is a full 17x10 grid
const RacksPerRoom = rack.Columns * rack.Rows

var dataCenters = []domain.DataCenter{
	{DCID: "DC-001", DCName: "Tokyo Data Center 1", Location: "Tokyo", RoomCount: 5},
	{DCID: "DC-002", DCName: "Tokyo Data Center 2", Location: "Tokyo", RoomCount: 4},
}

var rooms = []domain.Room{
	{RoomID: "ROOM-001", RoomName: "1F-A", DCID: "DC-001", RackCount: RacksPerRoom},
	{RoomID: "ROOM-002", RoomName: "1F-B", DCID: "DC-001", RackCount: RacksPerRoom},
	{RoomID: "ROOM-003", RoomName: "2F-A", DCID: "DC-001", RackCount: RacksPerRoom},
	{RoomID: "ROOM-004", RoomName: "2F-B", DCID: "DC-001", RackCount: RacksPerRoom},
	{RoomID: "ROOM-005", RoomName: "3F-A", DCID: "DC-001", RackCount: RacksPerRoom},
	{RoomID: "ROOM-006", RoomName: "1F Server Room", DCID: "DC-002", RackCount: RacksPerRoom},
	{RoomID: "ROOM-007", RoomName: "2F Server Room", DCID: "DC-002", RackCount: RacksPerRoom},
	{RoomID: "ROOM-008", RoomName: "3F Server Room", DCID: "DC-002", RackCount: RacksPerRoom},
	{RoomID: "ROOM-009", RoomName: "4F Server Room", DCID: "DC-002", RackCount: RacksPerRoom},
}

// DataCenters returns a copy of the data center list.
func DataCenters() []domain.DataCenter {
	out := make([]domain.DataCenter, len(dataCenters))
	copy(out, dataCenters)
	return out
}

// Rooms returns a copy of every room across data centers.
func Rooms() []domain.Room {
	out := make([]domain.Room, len(rooms))
	copy(out, rooms)
	return out
}

func DataCenter(dcID string) (domain.DataCenter, bool) {
	for _, dc := range dataCenters {
		if dc.DCID == dcID {
			return dc, true
		}
	}
	return domain.DataCenter{}, false
}

func Room(roomID string) (domain.Room, bool) {
	for _, r := range rooms {
		if r.RoomID == roomID {
			return r, true
		}
	}
	return domain.Room{}, false
}

// RoomsByDC returns rooms of one data center in catalog order.
func RoomsByDC(dcID string) []domain.Room {
	out := []domain.Room{}
	for _, r := range rooms {
		if r.DCID == dcID {
			out = append(out, r)
		}
	}
	return out
}
