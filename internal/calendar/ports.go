// Package calendar imports display events from an external calendar
// service for the dashboard overlay.
package calendar

import (
	"context"
	"time"

	"gagyebu/internal/core"
)

// Window bounds the event query by start instant.
type Window struct {
	From time.Time
	To   time.Time
}

// WindowAround returns a window of ±days around a reference instant.
func WindowAround(now time.Time, days int) Window {
	return Window{
		From: now.AddDate(0, 0, -days),
		To:   now.AddDate(0, 0, days),
	}
}

// EventLister fetches events whose start falls inside the window. Failures
// propagate as errors here; the dataset layer degrades them to an empty
// event list so calendar trouble never blanks the spreadsheet tables.
type EventLister interface {
	ListEvents(ctx context.Context, w Window) ([]core.Event, error)
}
