package database

import (
	"context"
	"fmt"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// CreateAppointment stores a confirmed appointment
func (db *DB) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO appointments (id, kind, user_id, provider_id, provider_name, contact_name, contact_email, contact_phone,
			date, time, service, payment_method, price, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, a.ID, a.Kind, a.UserID, a.ProviderID, a.ProviderName, a.ContactName, a.ContactEmail, a.ContactPhone,
		a.Date, a.Time, a.Service, a.PaymentMethod, a.Price, a.Notes, a.Status, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

// ListAppointmentsByUser returns a user's appointments, newest first
func (db *DB) ListAppointmentsByUser(ctx context.Context, userID int) ([]models.Appointment, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id::text, kind, user_id, provider_id, provider_name, contact_name, contact_email, contact_phone,
			date, time, service, payment_method, price, notes, status, created_at
		FROM appointments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(
			&a.ID, &a.Kind, &a.UserID, &a.ProviderID, &a.ProviderName, &a.ContactName, &a.ContactEmail, &a.ContactPhone,
			&a.Date, &a.Time, &a.Service, &a.PaymentMethod, &a.Price, &a.Notes, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}
