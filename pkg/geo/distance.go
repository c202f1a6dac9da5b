package geo

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius (IUGG)
const EarthRadiusKm = 6371.0088

// Point is a WGS84 coordinate in degrees
type Point struct {
	Latitude  float64
	Longitude float64
}

// DistanceKm returns the haversine great-circle distance between a and b
func DistanceKm(a, b Point) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := lat2 - lat1
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push h slightly above 1 for antipodal points
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// BoundingBox is a latitude/longitude rectangle
type BoundingBox struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

// Contains reports whether p lies inside the box
func (b BoundingBox) Contains(p Point) bool {
	return p.Latitude >= b.MinLatitude && p.Latitude <= b.MaxLatitude &&
		p.Longitude >= b.MinLongitude && p.Longitude <= b.MaxLongitude
}

// BoundingBoxAround returns a box that contains every point within radiusKm of
// center. It over-approximates and is meant as a prefilter for DistanceKm.
func BoundingBoxAround(center Point, radiusKm float64) BoundingBox {
	d := radiusKm / EarthRadiusKm
	dLat := degrees(d)
	box := BoundingBox{
		MinLatitude:  math.Max(-90, center.Latitude-dLat),
		MaxLatitude:  math.Min(90, center.Latitude+dLat),
		MinLongitude: -180,
		MaxLongitude: 180,
	}

	// a circle touching a pole spans every longitude
	if box.MinLatitude <= -90 || box.MaxLatitude >= 90 {
		return box
	}

	// half-width of the spherical cap at its widest, which lies off the
	// center latitude
	cosLat := math.Cos(radians(center.Latitude))
	if math.Sin(d) >= cosLat {
		return box
	}
	dLon := degrees(math.Asin(math.Sin(d) / cosLat))
	if center.Longitude-dLon < -180 || center.Longitude+dLon > 180 {
		return box
	}
	box.MinLongitude = center.Longitude - dLon
	box.MaxLongitude = center.Longitude + dLon
	return box
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
