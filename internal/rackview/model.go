package rackview

import (
	"context"
	"time"

	"dcmonitor/internal/rack"
	"dcmonitor/internal/service"

	tea "github.com/charmbracelet/bubbletea"
)

// HeatmapFetcher source of room heatmaps
type HeatmapFetcher interface {
	Heatmap(ctx context.Context, roomID string, metric rack.MetricType) (*service.HeatmapResponse, error)
}

const fetchTimeout = 10 * time.Second

type tickMsg time.Time

type heatmapMsg struct {
	roomID string
	metric rack.MetricType
	resp   *service.HeatmapResponse
	err    error
}

// Model terminal view of one room's rack grid
type Model struct {
	fetcher  HeatmapFetcher
	rooms    []string
	roomIdx  int
	metric   rack.MetricType
	interval time.Duration

	heatmap *service.HeatmapResponse
	err     error
	loading bool
	updated time.Time
	now     func() time.Time
}

func NewModel(fetcher HeatmapFetcher, rooms []string, interval time.Duration) Model {
	return Model{
		fetcher:  fetcher,
		rooms:    rooms,
		metric:   rack.MetricTemperature,
		interval: interval,
		loading:  true,
		now:      time.Now,
	}
}

func (m Model) room() string {
	if len(m.rooms) == 0 {
		return service.DefaultRoomID
	}
	return m.rooms[m.roomIdx]
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(m.interval), fetch(m.fetcher, m.room(), m.metric))
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func fetch(f HeatmapFetcher, roomID string, metric rack.MetricType) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		resp, err := f.Heatmap(ctx, roomID, metric)
		return heatmapMsg{roomID: roomID, metric: metric, resp: resp, err: err}
	}
}

func (m Model) refetch() (Model, tea.Cmd) {
	m.loading = true
	return m, fetch(m.fetcher, m.room(), m.metric)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "t":
			m.metric = rack.MetricTemperature
			return m.refetch()
		case "h":
			m.metric = rack.MetricHumidity
			return m.refetch()
		case "a":
			m.metric = rack.MetricAirflow
			return m.refetch()
		case "n", "right":
			if len(m.rooms) > 0 {
				m.roomIdx = (m.roomIdx + 1) % len(m.rooms)
			}
			return m.refetch()
		case "p", "left":
			if len(m.rooms) > 0 {
				m.roomIdx = (m.roomIdx - 1 + len(m.rooms)) % len(m.rooms)
			}
			return m.refetch()
		case "r":
			return m.refetch()
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(tick(m.interval), fetch(m.fetcher, m.room(), m.metric))

	case heatmapMsg:
		// drop responses for a room or metric that is no longer selected
		if msg.roomID != m.room() || msg.metric != m.metric {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.heatmap = msg.resp
			m.updated = m.now()
		}
		return m, nil
	}
	return m, nil
}
