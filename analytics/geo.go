package analytics

import (
	"math"
	"strconv"

	"visitlens/api/models"
)

// CoordinatePrecision is the number of decimals kept when two visits carry no
// place name and have to be merged on position alone.
const CoordinatePrecision = 2

type DensityTier string

const (
	TierXL DensityTier = "xl"
	TierLG DensityTier = "lg"
	TierMD DensityTier = "md"
	TierSM DensityTier = "sm"
	TierXS DensityTier = "xs"
)

// ClusterGeo merges located visits into one cluster per city and country.
// A cluster is plotted at the first coordinates seen for it. Records without
// both coordinates are skipped; when nothing qualifies the result is empty.
func ClusterGeo(records []models.VisitRecord) []GeoCluster {
	index := make(map[string]int)
	clusters := make([]GeoCluster, 0)
	for _, r := range records {
		if r.Latitude == nil || r.Longitude == nil {
			continue
		}
		key := clusterKey(r)
		if i, ok := index[key]; ok {
			clusters[i].VisitCount++
			continue
		}
		index[key] = len(clusters)
		clusters = append(clusters, GeoCluster{
			Country:     deref(r.Country),
			CountryCode: deref(r.CountryCode),
			City:        deref(r.City),
			Lat:         *r.Latitude,
			Lon:         *r.Longitude,
			VisitCount:  1,
		})
	}
	return clusters
}

func clusterKey(r models.VisitRecord) string {
	city, country := deref(r.City), deref(r.Country)
	if city == "" && country == "" {
		return "@" + roundCoord(*r.Latitude) + "," + roundCoord(*r.Longitude)
	}
	return city + "|" + country
}

func roundCoord(v float64) string {
	scale := math.Pow(10, CoordinatePrecision)
	return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', CoordinatePrecision, 64)
}

// DensityTierFor sizes a marker from its share of all filtered visits.
func DensityTierFor(visitCount, totalVisits int) DensityTier {
	share := percentOf(visitCount, totalVisits)
	switch {
	case share > 20:
		return TierXL
	case share > 10:
		return TierLG
	case share > 5:
		return TierMD
	case share > 2:
		return TierSM
	default:
		return TierXS
	}
}
