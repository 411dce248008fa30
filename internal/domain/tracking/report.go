package tracking

import (
	"sort"
	"time"

	domlisting "github.com/DemirSacirovic/serbian-estate-intelligence/internal/domain/listing"
)

// DefaultDesperateThreshold is the minimum desperation score for a seller to
// appear in the report.
const DefaultDesperateThreshold = 60

// DesperateSeller is one entry of the desperate-seller report.
type DesperateSeller struct {
	Identity       domlisting.PropertyIdentity `json:"identity"`
	Desperation    int                         `json:"desperation"`
	DaysOnMarket   int                         `json:"days_on_market"`
	LastPrice      float64                     `json:"last_price"`
	Recommendation Recommendation              `json:"recommendation"`
}

// DesperateSellers builds the report from open histories: entries at or
// above the threshold, ranked by descending desperation with identity as the
// deterministic tie-break.  Closed histories never appear.
func DesperateSellers(histories []*PriceHistory, threshold int, now time.Time) []*DesperateSeller {
	if threshold <= 0 {
		threshold = DefaultDesperateThreshold
	}

	out := make([]*DesperateSeller, 0, len(histories))
	for _, h := range histories {
		if !h.IsOpen() {
			continue
		}
		rec := Recommend(h, now)
		if rec.Desperation.Total < threshold {
			continue
		}
		out = append(out, &DesperateSeller{
			Identity:       h.Identity,
			Desperation:    rec.Desperation.Total,
			DaysOnMarket:   h.DaysOnMarket(),
			LastPrice:      h.LastPrice(),
			Recommendation: rec,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Desperation != out[j].Desperation {
			return out[i].Desperation > out[j].Desperation
		}
		return out[i].Identity < out[j].Identity
	})
	return out
}

//Personal.AI order the ending
