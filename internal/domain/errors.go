package domain

import "errors"

var (
	ErrMemberNotFound         = errors.New("member not found")
	ErrDrillNotFound          = errors.New("drill not found")
	ErrUnknownMetric          = errors.New("unknown metric")
	ErrUnknownWindow          = errors.New("unknown time window")
	ErrInvalidRound           = errors.New("invalid round")
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
)
