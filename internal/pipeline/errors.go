package pipeline

import (
	"fmt"
	"net/http"

	"github.com/relicscan/relic-data/internal/market"
)

// Kind classifies where in the scan a failure belongs and how it is
// handled: collaborator and input failures abort the scan, everything
// else degrades the single item it is scoped to.
type Kind int

const (
	// KindInput means the scan input itself is unusable (no codes
	// recognized, unreadable file).
	KindInput Kind = iota

	// KindResolution means a recovered code or reward name could not be
	// mapped to reference data.
	KindResolution

	// KindTransient is a fetch failure that a later attempt could
	// succeed on: rate limiting, server errors, transport faults.
	KindTransient

	// KindPermanent is a fetch failure retrying cannot fix, a 404 for a
	// synthesized slug being the common case.
	KindPermanent

	// KindCollaborator is a failure in a required external component
	// (OCR sidecar, catalog refresh); the scan stops before any
	// downstream stage runs.
	KindCollaborator
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindResolution:
		return "resolution"
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	case KindCollaborator:
		return "collaborator"
	default:
		return "unknown"
	}
}

// Error is a scan failure scoped to a kind and, where it applies, the
// item or code it concerns.
type Error struct {
	Kind Kind
	Item string
	Err  error
}

func (e *Error) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Item, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// classifyFetch maps an order-fetch failure to a kind. Statuses the
// client would have retried are transient; other 4xx responses are
// permanent; anything without a status is a transport fault, transient.
func classifyFetch(err error) Kind {
	status := market.StatusOf(err)
	switch {
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return KindTransient
	case status >= http.StatusBadRequest:
		return KindPermanent
	default:
		return KindTransient
	}
}
