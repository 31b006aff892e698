// Package google adapts the Google Calendar API to the calendar port.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gagyebu/internal/calendar"
	"gagyebu/internal/core"

	gcal "google.golang.org/api/calendar/v3"
	goption "google.golang.org/api/option"
)

// ExternalEventColor is the fixed display color for imported events.
const ExternalEventColor = "#f48fb1"

type Client struct {
	svc        *gcal.Service
	calendarID string
}

var _ calendar.EventLister = (*Client)(nil)

// New creates a Calendar client for one calendar with explicit credentials.
// The calendar ID is the account address sharing the calendar.
func New(ctx context.Context, calendarID string, credentialsJSON []byte) (*Client, error) {
	if strings.TrimSpace(calendarID) == "" {
		return nil, errors.New("missing calendar ID")
	}
	svc, err := gcal.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gcal.CalendarReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Client{svc: svc, calendarID: calendarID}, nil
}

// ListEvents fetches events starting inside the window, expanded to single
// occurrences and ordered by start time.
func (c *Client) ListEvents(ctx context.Context, w calendar.Window) ([]core.Event, error) {
	if c.svc == nil {
		return nil, errors.New("calendar service not initialized")
	}
	resp, err := c.svc.Events.List(c.calendarID).
		TimeMin(w.From.Format(time.RFC3339)).
		TimeMax(w.To.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list events for %s: %w", c.calendarID, err)
	}

	out := make([]core.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, ok := mapEvent(item)
		if !ok {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// mapEvent converts one remote event into the display shape. Events whose
// start cannot be parsed are skipped rather than imported with a zero time.
func mapEvent(item *gcal.Event) (core.Event, bool) {
	if item == nil || item.Start == nil {
		return core.Event{}, false
	}
	ev := core.Event{Title: item.Summary, Color: ExternalEventColor}

	switch {
	case item.Start.DateTime != "":
		t, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return core.Event{}, false
		}
		ev.Start = t
	case item.Start.Date != "":
		t, err := time.Parse("2006-01-02", item.Start.Date)
		if err != nil {
			return core.Event{}, false
		}
		ev.Start = t
		ev.AllDay = true
	default:
		return core.Event{}, false
	}
	return ev, true
}
