package schema

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var terminalCodePattern = regexp.MustCompile(`^[A-Z0-9_]{2,16}$`)

// use a single instance of Validate, it caches struct info
var RequestValidate *validator.Validate

func init() {
	RequestValidate = validator.New(validator.WithRequiredStructEnabled())

	// Function to check if terminal code is valid format
	errTerminal := RequestValidate.RegisterValidation("terminalCode", func(fl validator.FieldLevel) bool {
		return terminalCodePattern.MatchString(fl.Field().String())
	})
	if errTerminal != nil {
		return
	}

	// Free-text descriptors are collapsed before parsing, anything printable goes
	errDescriptor := RequestValidate.RegisterValidation("descriptor", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, r := range value {
			if r < 0x20 && r != '\t' {
				return false
			}
		}
		return true
	})
	if errDescriptor != nil {
		return
	}
}

type QueryParams struct {
	Terminal TerminalCode `json:"terminal" validate:"required,terminalCode" description:"Terminal code"`
	Vessel   string       `json:"vessel" validate:"omitempty,max=120,descriptor" description:"Vessel name and voyage, e.g. SRI SUREE V.25080S"`
}

type QueryParamsForBatch struct {
	Vessel string `json:"vessel" validate:"omitempty,max=120,descriptor" description:"Overrides every terminal's self-test descriptor"`
}
