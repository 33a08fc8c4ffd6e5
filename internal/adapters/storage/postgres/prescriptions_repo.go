package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"pet-telehealth/internal/domain/prescriptions"
)

type PrescriptionsRepo struct {
	db *sql.DB
}

func NewPrescriptionsRepo(db *sql.DB) *PrescriptionsRepo {
	return &PrescriptionsRepo{db: db}
}

// medicationRecord es el shape JSONB de la columna medications.
type medicationRecord struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

func (r *PrescriptionsRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	meds, err := marshalMedications(p.Medications)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO prescriptions (
			id, consultation_id, pet_id,
			vet_id, vet_name,
			medications, instructions,
			issued_at, delivered, delivered_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.ConsultationID,
		p.PetID,
		p.VetID,
		p.VetName,
		meds,
		p.Instructions,
		p.IssuedAt,
		p.Delivered,
		toNullTime(p.DeliveredAt),
	)
	return err
}

func (r *PrescriptionsRepo) GetByID(ctx context.Context, id string) (prescriptions.Prescription, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, consultation_id, pet_id,
			vet_id, vet_name,
			medications, instructions,
			issued_at, delivered, delivered_at
		FROM prescriptions
		WHERE id = $1
	`, id)

	p, err := scanPrescription(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prescriptions.Prescription{}, prescriptions.ErrNotFound
		}
		return prescriptions.Prescription{}, err
	}
	return p, nil
}

func (r *PrescriptionsRepo) ListByPet(ctx context.Context, petID string) ([]prescriptions.Prescription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, consultation_id, pet_id,
			vet_id, vet_name,
			medications, instructions,
			issued_at, delivered, delivered_at
		FROM prescriptions
		WHERE pet_id = $1
		ORDER BY issued_at DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]prescriptions.Prescription, 0)
	for rows.Next() {
		p, err := scanPrescription(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// MarkDelivered solo toca filas todavía no entregadas; repetirlo sobre
// una entregada no afecta filas y devuelve el registro tal cual
// (idempotente, el primer delivered_at se conserva).
func (r *PrescriptionsRepo) MarkDelivered(ctx context.Context, id string, at time.Time) (prescriptions.Prescription, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE prescriptions
		SET delivered = TRUE, delivered_at = $2
		WHERE id = $1 AND delivered = FALSE
	`, id, at)
	if err != nil {
		return prescriptions.Prescription{}, err
	}

	return r.GetByID(ctx, id)
}

func scanPrescription(scan func(...any) error) (prescriptions.Prescription, error) {
	var (
		p           prescriptions.Prescription
		medsRaw     []byte
		deliveredAt sql.NullTime
	)

	if err := scan(
		&p.ID,
		&p.ConsultationID,
		&p.PetID,
		&p.VetID,
		&p.VetName,
		&medsRaw,
		&p.Instructions,
		&p.IssuedAt,
		&p.Delivered,
		&deliveredAt,
	); err != nil {
		return prescriptions.Prescription{}, err
	}

	var records []medicationRecord
	if err := json.Unmarshal(medsRaw, &records); err != nil {
		return prescriptions.Prescription{}, err
	}
	p.Medications = make([]prescriptions.Medication, 0, len(records))
	for _, m := range records {
		p.Medications = append(p.Medications, prescriptions.Medication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}

	if deliveredAt.Valid {
		t := deliveredAt.Time
		p.DeliveredAt = &t
	}

	return p, nil
}

func marshalMedications(meds []prescriptions.Medication) ([]byte, error) {
	records := make([]medicationRecord, 0, len(meds))
	for _, m := range meds {
		records = append(records, medicationRecord{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}
	return json.Marshal(records)
}
