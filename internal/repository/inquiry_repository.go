package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/swim-school-site/internal/models"
)

const inquiryColumns = `id, inquiry_type, guardian_name, email, phone, child_first_name, course_id, course_label, heard_about_us, created_at`

// InquiryRepository handles persistence of delivered inquiries.
type InquiryRepository struct {
	db *sqlx.DB
}

// NewInquiryRepository constructs the repository.
func NewInquiryRepository(db *sqlx.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// Create persists a new inquiry record.
func (r *InquiryRepository) Create(ctx context.Context, record *models.InquiryRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO inquiries (` + inquiryColumns + `)
        VALUES (:id, :inquiry_type, :guardian_name, :email, :phone, :child_first_name, :course_id, :course_label, :heard_about_us, :created_at)
        ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

// List returns inquiries newest first, filtered and paginated.
func (r *InquiryRepository) List(ctx context.Context, filter models.InquiryFilter) ([]models.InquiryRecord, int, error) {
	clause := ""
	var args []interface{}
	if filter.Type != "" {
		clause = " WHERE inquiry_type = $1"
		args = append(args, filter.Type)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM inquiries%s ORDER BY created_at DESC LIMIT %d OFFSET %d`, inquiryColumns, clause, size, offset)
	var records []models.InquiryRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list inquiries: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM inquiries"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count inquiries: %w", err)
	}
	return records, total, nil
}

// Ping checks the database connection.
func (r *InquiryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
