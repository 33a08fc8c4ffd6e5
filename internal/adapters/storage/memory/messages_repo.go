package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-telehealth/internal/domain/messages"
)

type messageRepo struct {
	mu             sync.RWMutex
	byConsultation map[string][]messages.Message
	seq            map[string]uint64
}

func NewMessageRepo() messages.Repository {
	return &messageRepo{
		byConsultation: make(map[string][]messages.Message),
		seq:            make(map[string]uint64),
	}
}

func (r *messageRepo) Append(ctx context.Context, m messages.Message) (messages.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return messages.Message{}, errors.New("message id required")
	}

	// seq por canal bajo el mismo lock que el append: monotónico aunque
	// dos posts lleguen en el mismo instante de reloj.
	r.seq[m.ConsultationID]++
	m.Seq = r.seq[m.ConsultationID]

	r.byConsultation[m.ConsultationID] = append(r.byConsultation[m.ConsultationID], m)
	return m, nil
}

func (r *messageRepo) ListByConsultation(ctx context.Context, consultationID string) ([]messages.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byConsultation[consultationID]
	out := make([]messages.Message, len(items))
	copy(out, items)

	// (timestamp, seq) asc: seq desempata timestamps iguales
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	return out, nil
}
