package entity

type ResourceUsage struct {
	Used        float64 `json:"used"`
	Limit       float64 `json:"limit"`
	PercentUsed float64 `json:"percentUsed"`
}

type Usage struct {
	Plan            string        `json:"plan,omitempty"`
	Storage         ResourceUsage `json:"storage"`
	Bandwidth       ResourceUsage `json:"bandwidth"`
	Transformations ResourceUsage `json:"transformations"`
	Credits         ResourceUsage `json:"credits"`
}
