package messages

import (
	"context"
	"time"

	"pet-telehealth/internal/platform/logger"

	"github.com/google/uuid"
)

// autoReplyBody es la respuesta enlatada del vet simulado.
const autoReplyBody = "Thank you for your message. I'm reviewing your pet's information and will provide advice shortly."

const deliverTimeout = 5 * time.Second

type pendingReply struct {
	consultationID string
	vetID          string
	vetName        string
	dueAt          time.Time
}

// Responder entrega la respuesta automática del vet con un retraso fijo.
// Es una cola en memoria drenada por una sola goroutine: agendar nunca
// bloquea al caller de Post y la entrega no necesita que la conexión
// original siga abierta. En shutdown lo pendiente se descarta sin error
// (best-effort, sin garantía de durabilidad).
type Responder struct {
	repo     Repository
	consults ConsultationSource
	delay    time.Duration
	log      logger.Logger
	now      func() time.Time

	tasks chan pendingReply
	stop  chan struct{}
	done  chan struct{}
}

func NewResponder(repo Repository, consults ConsultationSource, delay time.Duration, log logger.Logger) *Responder {
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Responder{
		repo:     repo,
		consults: consults,
		delay:    delay,
		log:      log,
		now:      time.Now,
		tasks:    make(chan pendingReply, 256),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *Responder) Start() {
	go r.loop()
}

// Stop descarta las respuestas pendientes y espera a que la goroutine
// termine. Idempotente no es: llamarlo una sola vez desde main.
func (r *Responder) Stop() {
	close(r.stop)
	<-r.done
}

// Schedule encola una respuesta para el canal indicado. Si la cola está
// llena se descarta: la entrega es explícitamente best-effort.
func (r *Responder) Schedule(consultationID, vetID, vetName string) {
	t := pendingReply{
		consultationID: consultationID,
		vetID:          vetID,
		vetName:        vetName,
		dueAt:          r.now().Add(r.delay),
	}

	select {
	case r.tasks <- t:
	default:
		r.log.Warn("auto reply dropped: queue full", map[string]any{
			"consultation_id": consultationID,
		})
	}
}

func (r *Responder) loop() {
	defer close(r.done)

	for {
		select {
		case <-r.stop:
			return
		case t := <-r.tasks:
			// time.Until usa el reloj monotónico del proceso.
			if wait := time.Until(t.dueAt); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-r.stop:
					timer.Stop()
					return
				case <-timer.C:
				}
			}
			r.deliver(t)
		}
	}
}

func (r *Responder) deliver(t pendingReply) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	// Si la consulta ya no es recuperable, la entrega se dropea en
	// silencio: ni retry ni error.
	if _, err := r.consults.GetByID(ctx, t.consultationID); err != nil {
		return
	}

	m := Message{
		ID:             uuid.NewString(),
		ConsultationID: t.consultationID,
		SenderID:       t.vetID,
		SenderName:     t.vetName,
		FromVet:        true,
		Body:           autoReplyBody,
		Timestamp:      r.now(),
	}

	if _, err := r.repo.Append(ctx, m); err != nil {
		r.log.Error("auto reply append failed", map[string]any{
			"consultation_id": t.consultationID,
			"error":           err.Error(),
		})
	}
}
