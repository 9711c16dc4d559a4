package schema

// ParsingMethod identifies which cascade rule (or fallback) split a descriptor.
type ParsingMethod string

const (
	ParsedVDotPrefix   ParsingMethod = "v_dot_prefix"
	ParsedVPrefix      ParsingMethod = "v_prefix"
	ParsedLetterPrefix ParsingMethod = "letter_prefix"
	ParsedDigitAlnum   ParsingMethod = "digit_alnum"
	ParsedNumeric      ParsingMethod = "numeric"
	ParsedVDotSpace    ParsingMethod = "v_dot_space"
	ParsedVDotHyphen   ParsingMethod = "v_dot_hyphen"
	ParsedLastWord     ParsingMethod = "last_word_detection"
	ParsedNoVoyage     ParsingMethod = "no_voyage_detected"
	ParsedEmptyInput   ParsingMethod = "empty_input"
)

// VesselDescriptor is a free-text "vessel + voyage" string split into its parts.
type VesselDescriptor struct {
	RawText       string        `json:"raw_text"`
	VesselName    string        `json:"vessel_name"`
	VoyageCode    string        `json:"voyage_code"`
	FullName      string        `json:"full_name"`
	ParsingMethod ParsingMethod `json:"parsing_method"`
}

// HasVoyage reports whether the descriptor carries a voyage constraint.
func (d VesselDescriptor) HasVoyage() bool {
	return d.VoyageCode != ""
}
