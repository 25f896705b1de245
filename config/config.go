package config

// Defaulter is implemented by configs that fill unset fields.
type Defaulter interface {
	ApplyDefaults()
}

// Validatable is implemented by configs that check themselves after loading.
type Validatable interface {
	Validate() error
}

// Finalize applies defaults and validates cfg when it supports either step.
func Finalize(cfg any) error {
	if d, ok := cfg.(Defaulter); ok {
		d.ApplyDefaults()
	}
	if v, ok := cfg.(Validatable); ok {
		return v.Validate()
	}
	return nil
}
