package postgres

import (
	"context"
	"database/sql"

	"pet-telehealth/internal/domain/messages"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

// Append asigna seq con un MAX+1 por canal dentro del INSERT; dos
// appends concurrentes al mismo canal serializan en el índice único
// (consultation_id, seq) y el perdedor reintenta una vez.
func (r *MessagesRepo) Append(ctx context.Context, m messages.Message) (messages.Message, error) {
	const insert = `
		INSERT INTO messages (
			id, consultation_id,
			sender_id, sender_name, from_vet,
			body, ts, seq
		)
		SELECT $1,$2,$3,$4,$5,$6,$7,
			COALESCE(MAX(seq), 0) + 1
		FROM messages
		WHERE consultation_id = $2
		RETURNING seq
	`

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		err := r.db.QueryRowContext(ctx, insert,
			m.ID,
			m.ConsultationID,
			m.SenderID,
			m.SenderName,
			m.FromVet,
			m.Body,
			m.Timestamp,
		).Scan(&m.Seq)
		if err == nil {
			return m, nil
		}
		lastErr = err
	}

	return messages.Message{}, lastErr
}

func (r *MessagesRepo) ListByConsultation(ctx context.Context, consultationID string) ([]messages.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, consultation_id,
			sender_id, sender_name, from_vet,
			body, ts, seq
		FROM messages
		WHERE consultation_id = $1
		ORDER BY ts ASC, seq ASC
	`, consultationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]messages.Message, 0)
	for rows.Next() {
		var m messages.Message
		if err := rows.Scan(
			&m.ID,
			&m.ConsultationID,
			&m.SenderID,
			&m.SenderName,
			&m.FromVet,
			&m.Body,
			&m.Timestamp,
			&m.Seq,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
