package tui

import "github.com/cookedfr/cookedfr/internal/client"

type fortuneMsg struct {
	ticket  client.Ticket
	fortune string
	err     error
}

type exportDoneMsg struct {
	path string
	err  error
}
