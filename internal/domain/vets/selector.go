package vets

import (
	"errors"
	"math/rand/v2"
)

var (
	ErrNoVetAvailable = errors.New("no vet available")
)

// Selector elige un veterinario entre los candidatos de guardia.
// Es una interfaz para que los tests inyecten una estrategia
// determinística en lugar de la elección aleatoria de producción.
type Selector interface {
	Pick(candidates []Vet) (Vet, error)
}

type randomSelector struct{}

// NewRandomSelector devuelve la estrategia de producción: elección
// uniforme entre todos los candidatos.
func NewRandomSelector() Selector {
	return randomSelector{}
}

func (randomSelector) Pick(candidates []Vet) (Vet, error) {
	if len(candidates) == 0 {
		return Vet{}, ErrNoVetAvailable
	}
	return candidates[rand.IntN(len(candidates))], nil
}
