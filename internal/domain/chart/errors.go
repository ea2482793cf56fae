package chart

import "errors"

// ErrInvalidSettings indicates settings outside their allowed values.
var ErrInvalidSettings = errors.New("invalid chart settings")
