package vets

import (
	"errors"
	"strings"
)

var (
	ErrNotFound = errors.New("vet not found")
)

// Directory es el padrón inmutable de veterinarios de guardia.
type Directory struct {
	vets []Vet
	byID map[string]Vet
}

func NewDirectory(seed []Vet) *Directory {
	d := &Directory{
		vets: make([]Vet, len(seed)),
		byID: make(map[string]Vet, len(seed)),
	}
	copy(d.vets, seed)
	for _, v := range seed {
		d.byID[v.ID] = v
	}
	return d
}

// DefaultDirectory siembra el padrón de referencia.
func DefaultDirectory() *Directory {
	return NewDirectory([]Vet{
		{ID: "vet_001", Name: "Dr. Sarah Johnson", Specialization: "General Practice", Rating: 4.9},
		{ID: "vet_002", Name: "Dr. Michael Chen", Specialization: "Emergency Care", Rating: 4.8},
		{ID: "vet_003", Name: "Dr. Emily Rodriguez", Specialization: "Surgery", Rating: 4.9},
		{ID: "vet_004", Name: "Dr. James Wilson", Specialization: "Dermatology", Rating: 4.7},
	})
}

func (d *Directory) All() []Vet {
	out := make([]Vet, len(d.vets))
	copy(out, d.vets)
	return out
}

func (d *Directory) GetByID(id string) (Vet, error) {
	v, ok := d.byID[strings.TrimSpace(id)]
	if !ok {
		return Vet{}, ErrNotFound
	}
	return v, nil
}
