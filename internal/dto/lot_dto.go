package dto

type CreateLotRequest struct {
	LotName       string   `json:"lot_name"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	Pincode       string   `json:"pincode"`
	NumberOfSpots int      `json:"number_of_spots"`
	PricePerHour  *float64 `json:"price_per_hour"`
}

// UpdateLotRequest deliberately has no spot count: editing a lot never
// regenerates its spots.
type UpdateLotRequest struct {
	LotName      string   `json:"lot_name"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	Pincode      string   `json:"pincode"`
	PricePerHour *float64 `json:"price_per_hour"`
}

type ImportLotsResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
