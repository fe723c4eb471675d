package services

import (
	"aolua/internal/repos"
)

type ShippingService struct {
	Zones      *repos.ShippingRepo
	DefaultFee int64
}

func NewShippingService(zones *repos.ShippingRepo, defaultFee int64) *ShippingService {
	return &ShippingService{Zones: zones, DefaultFee: defaultFee}
}

// Fee resolves the shipping fee for a destination city and subtotal. Zones
// are scanned in position order and the first one whose city list matches
// wins; a matching zone with a met free-shipping threshold costs nothing.
// No zone matching at all falls back to the default fee.
func (s *ShippingService) Fee(city string, subtotal int64) (int64, error) {
	zones, err := s.Zones.ListZones()
	if err != nil {
		return 0, err
	}
	for _, z := range zones {
		if !z.Cities.ContainsFold(city) {
			continue
		}
		if z.FreeThreshold > 0 && subtotal >= z.FreeThreshold {
			return 0, nil
		}
		return z.Fee, nil
	}
	return s.DefaultFee, nil
}
