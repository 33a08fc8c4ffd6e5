package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pet-telehealth/internal/adapters/storage/postgres"
	"pet-telehealth/internal/config"
	"pet-telehealth/internal/domain/pets"
	"pet-telehealth/internal/domain/users"
	"pet-telehealth/internal/platform/logger"
)

// Siembra usuarios y mascotas de demo en Postgres. Pensado para
// ambientes de desarrollo; todos los usuarios quedan con la misma
// contraseña para poder loguearse a mano.
func main() {
	var (
		nUsers   = flag.Int("users", 10, "cantidad de usuarios demo")
		petsEach = flag.Int("pets", 2, "mascotas por usuario")
		password = flag.String("password", "demo1234", "contraseña de los usuarios demo")
	)
	flag.Parse()

	log := logger.NewFromEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config inválida", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	if cfg.DBDSN == "" {
		log.Error("DB_DSN es requerido para sembrar datos", nil)
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.DBDSN)
	if err != nil {
		log.Error("no se pudo conectar a postgres", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("no se pudo hashear la contraseña demo", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	userRepo := postgres.NewUsersRepo(db)
	petRepo := postgres.NewPetsRepo(db)

	faker := gofakeit.New(0)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	created := 0
	for i := 0; i < *nUsers; i++ {
		u := users.User{
			ID:           uuid.NewString(),
			Name:         faker.Name(),
			Email:        fmt.Sprintf("demo%02d@%s", i+1, faker.DomainName()),
			Phone:        faker.Phone(),
			PasswordHash: string(hash),
			CreatedAt:    time.Now().UTC(),
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Warn("usuario salteado", map[string]any{"email": u.Email, "error": err.Error()})
			continue
		}
		created++

		for j := 0; j < *petsEach; j++ {
			p := pets.Pet{
				ID:             uuid.NewString(),
				OwnerUserID:    u.ID,
				Name:           faker.PetName(),
				Breed:          faker.Animal(),
				Species:        faker.RandomString([]string{"Dog", "Cat", "Rabbit", "Bird"}),
				Age:            faker.Number(1, 14),
				MedicalHistory: faker.Sentence(8),
				CreatedAt:      time.Now().UTC(),
				UpdatedAt:      time.Now().UTC(),
			}
			if err := petRepo.Create(ctx, p); err != nil {
				log.Warn("mascota salteada", map[string]any{"name": p.Name, "error": err.Error()})
			}
		}
	}

	log.Info("seed completo", map[string]any{"users": created, "petsPerUser": *petsEach})
}
