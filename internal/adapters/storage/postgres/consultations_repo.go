package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-telehealth/internal/domain/consultations"
)

type ConsultationsRepo struct {
	db *sql.DB
}

func NewConsultationsRepo(db *sql.DB) *ConsultationsRepo {
	return &ConsultationsRepo{db: db}
}

func (r *ConsultationsRepo) Create(ctx context.Context, c consultations.Consultation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO consultations (
			id, owner_user_id, pet_id,
			vet_id, vet_name,
			kind, status,
			start_time, end_time, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		c.ID,
		c.OwnerUserID,
		c.PetID,
		c.VetID,
		c.VetName,
		string(c.Kind),
		string(c.Status),
		c.StartTime,
		toNullTime(c.EndTime),
		c.CreatedAt,
	)
	return err
}

func (r *ConsultationsRepo) GetByID(ctx context.Context, id string) (consultations.Consultation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id, pet_id,
			vet_id, vet_name,
			kind, status,
			start_time, end_time, created_at
		FROM consultations
		WHERE id = $1
	`, id)

	c, err := scanConsultation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return consultations.Consultation{}, consultations.ErrNotFound
		}
		return consultations.Consultation{}, err
	}
	return c, nil
}

func (r *ConsultationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]consultations.Consultation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id, pet_id,
			vet_id, vet_name,
			kind, status,
			start_time, end_time, created_at
		FROM consultations
		WHERE owner_user_id = $1
		ORDER BY start_time DESC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]consultations.Consultation, 0)
	for rows.Next() {
		c, err := scanConsultation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

// Complete es un compare-and-set: el WHERE status = 'ACTIVE' garantiza
// que de N ends concurrentes solo uno afecta filas; el resto distingue
// inexistente de no-activo con una lectura posterior.
func (r *ConsultationsRepo) Complete(ctx context.Context, id string, endTime time.Time) (consultations.Consultation, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE consultations
		SET status = $2, end_time = $3
		WHERE id = $1 AND status = $4
	`,
		id,
		string(consultations.StatusCompleted),
		endTime,
		string(consultations.StatusActive),
	)
	if err != nil {
		return consultations.Consultation{}, err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return consultations.Consultation{}, err
		}
		return consultations.Consultation{}, consultations.ErrNotActive
	}

	return r.GetByID(ctx, id)
}

func scanConsultation(scan func(...any) error) (consultations.Consultation, error) {
	var (
		c       consultations.Consultation
		kind    string
		status  string
		endTime sql.NullTime
	)

	if err := scan(
		&c.ID,
		&c.OwnerUserID,
		&c.PetID,
		&c.VetID,
		&c.VetName,
		&kind,
		&status,
		&c.StartTime,
		&endTime,
		&c.CreatedAt,
	); err != nil {
		return consultations.Consultation{}, err
	}

	c.Kind = consultations.Kind(kind)
	c.Status = consultations.Status(status)
	if endTime.Valid {
		t := endTime.Time
		c.EndTime = &t
	}

	return c, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
