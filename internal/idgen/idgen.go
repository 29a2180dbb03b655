package idgen

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// New returns a new globally unique identifier as string. It is implemented
// as a thin wrapper so tests can stub it.

var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }

// NewRound returns a lexicographically sortable identifier for a consent
// round. ULIDs sort by creation time, which keeps round history readable in
// audit output without an extra sequence column.
var NewRoundFunc = func() string { return ulid.Make().String() }

func NewRound() string { return NewRoundFunc() }
