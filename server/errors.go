package server

import "errors"

// ErrEngineRequired is returned when New is called without an engine.
var ErrEngineRequired = errors.New("engine required")
