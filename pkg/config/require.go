package config

import (
	"errors"
	"fmt"
)

// Required pairs an env var name with its loaded value.
type Required struct {
	Env   string
	Value string
}

// CheckRequired reports every missing variable at once.
func CheckRequired(vars ...Required) error {
	var errs []error
	for _, v := range vars {
		if v.Value == "" {
			errs = append(errs, fmt.Errorf("missing required env %s", v.Env))
		}
	}
	return errors.Join(errs...)
}
