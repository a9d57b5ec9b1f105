package service

import (
	"fmt"

	"github.com/noah-isme/swim-school-site/internal/models"
)

// FormatSpots renders a capacity for display. Counts are pluralised in Norwegian; statuses pass through.
func FormatSpots(c models.Capacity) string {
	if c.Remaining == nil {
		return c.Status
	}
	if *c.Remaining == 1 {
		return "1 plass ledig"
	}
	return fmt.Sprintf("%d plasser ledige", *c.Remaining)
}

// ComposeLabel builds the label shown when a schedule slot is picked.
func ComposeLabel(day string, session models.ScheduleSession) string {
	if session.AgeGroup == "" {
		return fmt.Sprintf("%s (%s %s)", session.Level, day, session.Time)
	}
	return fmt.Sprintf("%s: %s (%s %s)", session.Level, session.AgeGroup, day, session.Time)
}
