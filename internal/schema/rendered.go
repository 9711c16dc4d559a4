package schema

// RenderedOutcome is the JSON object the rendering collaborator prints on stdout.
type RenderedOutcome struct {
	Success      bool    `json:"success"`
	VesselFound  bool    `json:"vessel_found"`
	VoyageFound  bool    `json:"voyage_found"`
	VesselName   string  `json:"vessel_name"`
	VoyageCode   string  `json:"voyage_code"`
	ETA          *string `json:"eta"`
	ETD          *string `json:"etd"`
	SearchMethod string  `json:"search_method"`
	Error        *string `json:"error"`
}
