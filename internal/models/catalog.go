package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SessionHeader marks a schedule row that is a section header rather than a bookable slot.
const SessionHeader = "header"

// Course is one offered class as shown on the course cards and detail pages.
type Course struct {
	ID               string        `yaml:"id" json:"id"`
	Title            string        `yaml:"title" json:"title"`
	ShortDescription string        `yaml:"short_description" json:"short_description"`
	Icon             string        `yaml:"icon" json:"icon"`
	Image            string        `yaml:"image" json:"image"`
	AgeRange         string        `yaml:"age_range" json:"age_range"`
	Details          CourseDetails `yaml:"details" json:"details"`
}

// CourseDetails holds the long-form course description.
type CourseDetails struct {
	LongDescription     string   `yaml:"long_description" json:"long_description"`
	Price               string   `yaml:"price" json:"price"`
	Duration            string   `yaml:"duration" json:"duration"`
	Location            string   `yaml:"location" json:"location"`
	SpecificAge         string   `yaml:"specific_age" json:"specific_age"`
	ParentalInvolvement string   `yaml:"parental_involvement" json:"parental_involvement"`
	MembershipRequired  bool     `yaml:"membership_required" json:"membership_required"`
	WhatToBring         []string `yaml:"what_to_bring" json:"what_to_bring"`
	LearningGoals       []string `yaml:"learning_goals" json:"learning_goals"`
	FAQ                 []FAQ    `yaml:"faq" json:"faq,omitempty"`
	StartDate           string   `yaml:"start_date" json:"start_date,omitempty"`
}

type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// ScheduleDay groups the sessions held on one weekday.
type ScheduleDay struct {
	Day          string            `json:"day"`
	StartDate    string            `json:"start_date"`
	DurationNote string            `json:"duration_note"`
	Sessions     []ScheduleSession `json:"sessions"`
}

// ScheduleSession is one row of the weekly schedule.
type ScheduleSession struct {
	Time     string   `json:"time"`
	Level    string   `json:"level"`
	AgeGroup string   `json:"age_group"`
	CourseID string   `json:"course_id,omitempty"`
	Spots    Capacity `json:"spots"`
}

// IsHeader reports whether the row only introduces a block of sessions.
func (s ScheduleSession) IsHeader() bool {
	return s.Time == SessionHeader
}

// Selectable reports whether the session may open the enrollment wizard.
func (s ScheduleSession) Selectable() bool {
	return !s.IsHeader() && s.CourseID != ""
}

// Capacity is either a remaining-spot count or a free-text status such as a waitlist notice.
type Capacity struct {
	Remaining *int
	Status    string
}

// ParseCapacity treats integer text as a count and anything else as a status.
func ParseCapacity(raw string) Capacity {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return Capacity{Remaining: &n}
	}
	return Capacity{Status: raw}
}

// SpotsCount builds a numeric capacity.
func SpotsCount(n int) Capacity {
	return Capacity{Remaining: &n}
}

// SpotsStatus builds a free-text capacity.
func SpotsStatus(text string) Capacity {
	return Capacity{Status: text}
}

// UnmarshalCSV lets gocsv decode a spots cell directly.
func (c *Capacity) UnmarshalCSV(raw string) error {
	*c = ParseCapacity(raw)
	return nil
}

// MarshalCSV writes the count or the status text.
func (c Capacity) MarshalCSV() (string, error) {
	if c.Remaining != nil {
		return strconv.Itoa(*c.Remaining), nil
	}
	return c.Status, nil
}

// MarshalJSON emits a number or a string.
func (c Capacity) MarshalJSON() ([]byte, error) {
	if c.Remaining != nil {
		return json.Marshal(*c.Remaining)
	}
	return json.Marshal(c.Status)
}

// UnmarshalJSON accepts a number or a string.
func (c *Capacity) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Capacity{Remaining: &n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Capacity{Status: s}
	return nil
}

// Article is a news post.
type Article struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Title       string   `yaml:"title" json:"title"`
	Summary     string   `yaml:"summary" json:"summary"`
	Image       string   `yaml:"image" json:"image"`
	Author      string   `yaml:"author" json:"author"`
	PublishedAt string   `yaml:"published_at" json:"published_at"`
	Body        []string `yaml:"body" json:"body"`
}

// Region is a regional landing page listing the pools and courses near a city.
type Region struct {
	Slug      string   `yaml:"slug" json:"slug"`
	Name      string   `yaml:"name" json:"name"`
	Headline  string   `yaml:"headline" json:"headline"`
	Intro     string   `yaml:"intro" json:"intro"`
	Pools     []string `yaml:"pools" json:"pools"`
	CourseIDs []string `yaml:"course_ids" json:"course_ids"`
}

// Page is a static informational page such as the about or terms page.
type Page struct {
	Slug        string        `yaml:"slug" json:"slug"`
	Title       string        `yaml:"title" json:"title"`
	Description string        `yaml:"description" json:"description"`
	Sections    []PageSection `yaml:"sections" json:"sections"`
}

type PageSection struct {
	Heading string   `yaml:"heading" json:"heading"`
	Body    []string `yaml:"body" json:"body"`
}
