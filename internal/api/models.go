package api

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Index   string `json:"index"`
}

type ReloadResponse struct {
	Exemplars int `json:"exemplars"`
	Dimension int `json:"dimension"`
}
