package dto

import "github.com/noah-isme/swim-school-site/internal/models"

// SessionView annotates a schedule row for display and booking.
type SessionView struct {
	Index      int             `json:"index"`
	Time       string          `json:"time"`
	Level      string          `json:"level"`
	AgeGroup   string          `json:"ageGroup"`
	CourseID   string          `json:"courseId,omitempty"`
	Spots      models.Capacity `json:"spots"`
	SpotsText  string          `json:"spotsText"`
	Header     bool            `json:"header"`
	Selectable bool            `json:"selectable"`
	Label      string          `json:"label,omitempty"`
}

// ScheduleDayView is one day of the annotated schedule.
type ScheduleDayView struct {
	Day          string        `json:"day"`
	StartDate    string        `json:"startDate"`
	DurationNote string        `json:"durationNote"`
	Sessions     []SessionView `json:"sessions"`
}

// ResolveResponse reports how a label was resolved.
type ResolveResponse struct {
	Course    models.Course           `json:"course"`
	Level     string                  `json:"level"`
	AgeText   string                  `json:"ageText"`
	Day       string                  `json:"day"`
	Time      string                  `json:"time"`
	SpotsText string                  `json:"spotsText,omitempty"`
	Session   *models.ScheduleSession `json:"session,omitempty"`
	Tier      string                  `json:"tier"`
}

// InquiryListQuery holds the staff listing filters.
type InquiryListQuery struct {
	Type     models.InquiryType `form:"type"`
	Page     int                `form:"page"`
	PageSize int                `form:"pageSize"`
	Format   string             `form:"format"`
}
