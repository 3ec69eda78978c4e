package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bossnaboss212/center/internal/model"
)

// CreateJobApplication stores a submitted application with status "recu".
func CreateJobApplication(ctx context.Context, db *sql.DB, name, contact, position, resume string) (*model.JobApplication, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO job_applications (applicant_name, contact, position, resume, status)
		 VALUES (?, ?, ?, ?, ?)`,
		name, contact, position, resume, model.ApplicationReceived,
	)
	if err != nil {
		return nil, fmt.Errorf("creating job application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting job application id: %w", err)
	}

	a := &model.JobApplication{}
	err = db.QueryRowContext(ctx,
		`SELECT id, applicant_name, contact, position, resume, status, created_at
		 FROM job_applications WHERE id = ?`, id,
	).Scan(&a.ID, &a.ApplicantName, &a.Contact, &a.Position, &a.Resume, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting job application: %w", err)
	}
	return a, nil
}

// ListJobApplications returns applications, newest first.
func ListJobApplications(ctx context.Context, db *sql.DB) ([]model.JobApplication, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, applicant_name, contact, position, resume, status, created_at
		 FROM job_applications ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing job applications: %w", err)
	}
	defer rows.Close()

	var apps []model.JobApplication
	for rows.Next() {
		var a model.JobApplication
		if err := rows.Scan(&a.ID, &a.ApplicantName, &a.Contact, &a.Position, &a.Resume, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning job application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
