package validator

// Validator checks request and domain structs against their declared rules.
type Validator interface {
	Validate(data any) error
}

var _ Validator = (*V10Validator)(nil)
