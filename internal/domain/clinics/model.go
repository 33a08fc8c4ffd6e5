package clinics

// Clinic es data de referencia estática del directorio de clínicas.
type Clinic struct {
	ID           string
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	Phone        string
	Rating       float64
	IsEmergency  bool
	OpeningHours string
}

// RankedClinic es una clínica anotada con la distancia geodésica (km)
// al punto consultado.
type RankedClinic struct {
	Clinic
	DistanceKm float64
}
