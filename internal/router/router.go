package router

import (
	"database/sql"
	"net/http"
	"time"

	jwtadapter "pet-telehealth/internal/adapters/auth/jwtauth"
	mem "pet-telehealth/internal/adapters/storage/memory"
	pg "pet-telehealth/internal/adapters/storage/postgres"
	"pet-telehealth/internal/domain/clinics"
	"pet-telehealth/internal/domain/consultations"
	"pet-telehealth/internal/domain/messages"
	"pet-telehealth/internal/domain/pets"
	"pet-telehealth/internal/domain/prescriptions"
	"pet-telehealth/internal/domain/users"
	"pet-telehealth/internal/domain/vets"
	"pet-telehealth/internal/middleware"
	"pet-telehealth/internal/platform/lock"
	"pet-telehealth/internal/platform/logger"
	"pet-telehealth/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Debug-User-ID)
	TokenIssuer  auth.TokenIssuer  // si es nil se usa uno de dev

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: locker distribuido (Redis) para correr varias instancias.
	// Por defecto, mutex por entidad en el proceso.
	Locker lock.Locker

	// Estrategia de asignación de vets; por defecto aleatoria uniforme.
	VetSelector vets.Selector

	// Retraso de la respuesta automática del vet (default 2s).
	ReplyDelay time.Duration

	Logger logger.Logger
}

// NewRouter arma el árbol de rutas y cablea repos/services. Devuelve
// también un func de cierre que para el responder (las respuestas
// pendientes se descartan).
func NewRouter(opts Options) (http.Handler, func()) {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	issuer := opts.TokenIssuer
	if issuer == nil {
		issuer = jwtadapter.NewProvider("dev-secret-change-in-production", 0)
	}

	locker := opts.Locker
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}

	selector := opts.VetSelector
	if selector == nil {
		selector = vets.NewRandomSelector()
	}

	var (
		userRepo    users.Repository
		petRepo     pets.Repository
		consultRepo consultations.Repository
		msgRepo     messages.Repository
		prescRepo   prescriptions.Repository
	)

	if opts.DB != nil {
		userRepo = pg.NewUsersRepo(opts.DB)
		petRepo = pg.NewPetsRepo(opts.DB)
		consultRepo = pg.NewConsultationsRepo(opts.DB)
		msgRepo = pg.NewMessagesRepo(opts.DB)
		prescRepo = pg.NewPrescriptionsRepo(opts.DB)
	} else {
		userRepo = mem.NewUserRepo()
		petRepo = mem.NewPetRepo()
		consultRepo = mem.NewConsultationRepo()
		msgRepo = mem.NewMessageRepo()
		prescRepo = mem.NewPrescriptionRepo()
	}

	// Data de referencia, inmutable, sembrada al arrancar.
	vetsDir := vets.DefaultDirectory()
	clinicsSvc := clinics.NewService(clinics.DefaultSeed())

	// Services por módulo
	usersSvc := users.NewService(userRepo, issuer)
	petsSvc := pets.NewService(petRepo)
	consultSvc := consultations.NewService(consultRepo, petsSvc, vetsDir, selector, locker)

	responder := messages.NewResponder(msgRepo, consultRepo, opts.ReplyDelay, log)
	responder.Start()

	msgSvc := messages.NewService(msgRepo, consultSvc, usersSvc, responder)
	prescSvc := prescriptions.NewService(prescRepo, consultSvc, petsSvc)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", healthHandler())

		// register/login quedan fuera del grupo autenticado
		users.RegisterPublicRoutes(api, usersSvc)

		api.Group(func(priv chi.Router) {
			priv.Use(middleware.RequireAuth)

			users.RegisterRoutes(priv, usersSvc)
			pets.RegisterRoutes(priv, petsSvc)
			consultations.RegisterRoutes(priv, consultSvc, msgSvc)
			messages.RegisterRoutes(priv, msgSvc)
			prescriptions.RegisterRoutes(priv, prescSvc)
			vets.RegisterRoutes(priv, vetsDir)
			clinics.RegisterRoutes(priv, clinicsSvc)
		})
	})

	return r, responder.Stop
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"OK","message":"pet telehealth API is running"}`))
	}
}
