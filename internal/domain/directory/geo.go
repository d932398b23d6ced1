package directory

import "math"

const (
	earthRadiusKm = 6371.0

	DefaultRadiusKm = 10.0
	MaxRadiusKm     = 100.0

	DefaultPageSize = 20
	MaxPageSize     = 50
)

// Point é uma coordenada em graus decimais.
type Point struct {
	Lat float64
	Lng float64
}

func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// DistanceKm é a distância de Haversine entre dois pontos.
func DistanceKm(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Box é o retângulo que contém o círculo de busca; serve só para o filtro
// grosso no banco, a distância exata vem de DistanceKm.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func (b Box) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// BoundingBox perto dos polos ou cruzando o antimeridiano abre a longitude
// inteira em vez de dividir o retângulo em dois.
func BoundingBox(center Point, radiusKm float64) Box {
	dLat := radiusKm / earthRadiusKm * 180 / math.Pi

	b := Box{
		MinLat: math.Max(-90, center.Lat-dLat),
		MaxLat: math.Min(90, center.Lat+dLat),
		MinLng: -180,
		MaxLng: 180,
	}
	if b.MinLat == -90 || b.MaxLat == 90 {
		return b
	}

	dLng := dLat / math.Cos(radians(center.Lat))
	if center.Lng-dLng < -180 || center.Lng+dLng > 180 {
		return b
	}
	b.MinLng, b.MaxLng = center.Lng-dLng, center.Lng+dLng
	return b
}
