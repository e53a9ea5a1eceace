package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicops/clinicops/internal/domain/appointment"
	"github.com/clinicops/clinicops/internal/domain/inventory"
	"github.com/clinicops/clinicops/internal/domain/patient"
)

type storePG struct{ pool *pgxpool.Pool }

func NewStorePG(pool *pgxpool.Pool) Store {
	return &storePG{pool: pool}
}

func dayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func (s *storePG) Patients(ctx context.Context, tenantID string) ([]*patient.Patient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, name, gender, date_of_birth, phone, email, created_at, updated_at
		FROM patients WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

func collectPatients(rows pgx.Rows) ([]*patient.Patient, error) {
	var patients []*patient.Patient
	for rows.Next() {
		var p patient.Patient
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Gender, &p.DateOfBirth,
			&p.Phone, &p.Email, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}

const apptSelect = `
	SELECT id, tenant_id, patient_id, patient_name, start_time,
		duration_minutes, type, status, notes, created_at, updated_at
	FROM appointments`

func (s *storePG) TodayAppointments(ctx context.Context, tenantID string, now time.Time) ([]*appointment.Appointment, error) {
	from, to := dayWindow(now)
	rows, err := s.pool.Query(ctx, apptSelect+`
		WHERE tenant_id = $1 AND start_time BETWEEN $2 AND $3
		ORDER BY start_time`, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (s *storePG) UpcomingAppointments(ctx context.Context, tenantID string, now time.Time, limit int) ([]*appointment.Appointment, error) {
	rows, err := s.pool.Query(ctx, apptSelect+`
		WHERE tenant_id = $1 AND start_time >= $2
		ORDER BY start_time
		LIMIT $3`, tenantID, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (s *storePG) MonthAppointments(ctx context.Context, tenantID string, now time.Time) ([]*appointment.Appointment, error) {
	from, to := monthWindow(now)
	rows, err := s.pool.Query(ctx, apptSelect+`
		WHERE tenant_id = $1 AND start_time BETWEEN $2 AND $3
		ORDER BY start_time`, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func collectAppointments(rows pgx.Rows) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	for rows.Next() {
		var a appointment.Appointment
		if err := rows.Scan(&a.ID, &a.TenantID, &a.PatientID, &a.PatientName, &a.StartTime,
			&a.Duration, &a.Type, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		appts = append(appts, &a)
	}
	return appts, rows.Err()
}

func (s *storePG) Inventory(ctx context.Context, tenantID string) ([]*inventory.Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, name, quantity, min_quantity, max_quantity, unit, created_at, updated_at
		FROM inventory WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*inventory.Item
	for rows.Next() {
		var i inventory.Item
		if err := rows.Scan(&i.ID, &i.TenantID, &i.Name, &i.Quantity, &i.MinQuantity,
			&i.MaxQuantity, &i.Unit, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	return items, rows.Err()
}

func (s *storePG) RevenueBetween(ctx context.Context, tenantID string, from, to time.Time) (float64, error) {
	var total float64
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM invoices
		WHERE tenant_id = $1 AND created_at BETWEEN $2 AND $3`,
		tenantID, from, to).Scan(&total)
	return total, err
}
