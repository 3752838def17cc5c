package bordergeom

import (
	"encoding/binary"
	"errors"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/osmborder/border"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
)

var (
	ErrGeometry = errors.New("couldn't build geometry")
)

const (
	EPSGWebMercator = 3857
	EPSGWGS84       = 4326

	// maxMercatorLat is the latitude at which the spherical mercator projection becomes square
	maxMercatorLat = 85.0511287798
)

// EWKBHexBuilder builds line strings as hex encoded, little endian EWKB with the SRID set
type EWKBHexBuilder struct {
	srid       int
	projection orb.Projection
}

func NewEWKBHexBuilder(epsg int) (*EWKBHexBuilder, errorsx.Error) {
	switch epsg {
	case EPSGWebMercator:
		return &EWKBHexBuilder{epsg, project.WGS84.ToMercator}, nil
	case EPSGWGS84:
		return &EWKBHexBuilder{epsg, nil}, nil
	default:
		return nil, errorsx.Errorf("unsupported EPSG code: %d. Supported codes: %d, %d", epsg, EPSGWebMercator, EPSGWGS84)
	}
}

func (b *EWKBHexBuilder) SRID() int {
	return b.srid
}

func clampLat(lat float64) float64 {
	if lat > maxMercatorLat {
		return maxMercatorLat
	}
	if lat < -maxMercatorLat {
		return -maxMercatorLat
	}
	return lat
}

// toLineString converts the way's locations into a line string, dropping consecutive duplicate locations.
// With clamp set, latitudes are clamped to the mercator range before duplicates are compared.
func toLineString(way *border.ResolvedWay, clamp bool) orb.LineString {
	lineString := make(orb.LineString, 0, len(way.Nodes))
	for _, node := range way.Nodes {
		point := orb.Point{node.Location.Lon, node.Location.Lat}
		if clamp {
			point[1] = clampLat(point[1])
		}
		if len(lineString) != 0 && lineString[len(lineString)-1].Equal(point) {
			continue
		}
		lineString = append(lineString, point)
	}
	return lineString
}

func (b *EWKBHexBuilder) BuildLineString(way *border.ResolvedWay) (string, errorsx.Error) {
	lineString := toLineString(way, b.projection != nil)
	if len(lineString) < 2 {
		return "", errorsx.Wrap(ErrGeometry, "wayID", way.ID, "distinctPoints", len(lineString))
	}

	if b.projection != nil {
		lineString = project.LineString(lineString, b.projection)
	}

	flatCoords := make([]float64, 0, len(lineString)*2)
	for _, point := range lineString {
		flatCoords = append(flatCoords, point.X(), point.Y())
	}

	g := geom.NewLineStringFlat(geom.XY, flatCoords).SetSRID(b.srid)

	encoded, err := ewkbhex.Encode(g, binary.LittleEndian)
	if err != nil {
		return "", errorsx.Wrap(err, "wayID", way.ID)
	}

	return strings.ToUpper(encoded), nil
}
