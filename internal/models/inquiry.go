package models

import "time"

// InquiryRecord is one delivered form kept in the inquiry log.
type InquiryRecord struct {
	ID             string      `db:"id" json:"id"`
	InquiryType    InquiryType `db:"inquiry_type" json:"inquiry_type"`
	GuardianName   string      `db:"guardian_name" json:"guardian_name"`
	Email          string      `db:"email" json:"email"`
	Phone          string      `db:"phone" json:"phone"`
	ChildFirstName string      `db:"child_first_name" json:"child_first_name"`
	CourseID       string      `db:"course_id" json:"course_id"`
	CourseLabel    string      `db:"course_label" json:"course_label"`
	HeardAboutUs   string      `db:"heard_about_us" json:"heard_about_us"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// InquiryFilter captures filtering criteria for listing inquiries.
type InquiryFilter struct {
	Type     InquiryType
	Page     int
	PageSize int
}
