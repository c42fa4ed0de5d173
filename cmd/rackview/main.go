package main

import (
	"fmt"
	"os"

	"dcmonitor/common/logger"
	"dcmonitor/internal/catalog"
	"dcmonitor/internal/config"
	"dcmonitor/internal/rackview"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadViewer()

	log, err := logger.NewFileLogger(cfg.LogLevel, cfg.LogFile, "rackview")
	if err != nil {
		fmt.Fprintf(os.Stderr, "rackview: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	rooms := make([]string, 0, len(catalog.Rooms()))
	for _, r := range catalog.Rooms() {
		rooms = append(rooms, r.RoomID)
	}

	client := rackview.NewClient(cfg.BaseURL, cfg.Username, cfg.Password, log)
	p := tea.NewProgram(rackview.NewModel(client, rooms, cfg.Refresh), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("rackview exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "rackview: %v\n", err)
		os.Exit(1)
	}
}
