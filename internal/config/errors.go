package config

import "errors"

// ErrInvalid marks a config value outside its allowed range.
var ErrInvalid = errors.New("config: invalid value")
