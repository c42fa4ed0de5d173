package domain

// DataCenter site hosting several server rooms
type DataCenter struct {
	DCID      string `json:"dc_id"`
	DCName    string `json:"dc_name"`
	Location  string `json:"location"`
	RoomCount int    `json:"room_count"`
}

// Room server room laid out as a 17x10 rack grid
type Room struct {
	RoomID    string `json:"room_id"`
	RoomName  string `json:"room_name"`
	DCID      string `json:"dc_id"`
	RackCount int    `json:"rack_count"`
}

// RackType kind of equipment installed in the rack slot
type RackType string

const (
	RackNormal RackType = "normal"
	RackPoEHub RackType = "poe_hub"
	RackRouter RackType = "router"
)

// Rack one grid cell; immutable once generated for a room
type Rack struct {
	RackID      string   `json:"rack_id"`
	RoomID      string   `json:"room_id"`
	DCID        string   `json:"dc_id"`
	Row         int      `json:"row"` // 1..10
	Col         int      `json:"col"` // 1..17
	ColumnLabel string   `json:"column_label"`
	RackType    RackType `json:"rack_type"`
	XCoordinate int      `json:"x_coordinate"`
	YCoordinate int      `json:"y_coordinate"`
}
