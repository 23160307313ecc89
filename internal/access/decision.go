// Package access holds the authorization rules for posts, comments, courses
// and groups, and the read-time visibility filter for posts.
//
// Rules never fail for a denial. They return a Decision that the caller maps
// onto its own error or response; an error is returned only when the
// membership store itself fails.
package access

type Outcome uint8

const (
	Permit Outcome = iota
	// Unauthenticated means the rule needs an identity and none was given.
	Unauthenticated
	Forbid
	// Conflict means the requester has the right in principle but the
	// current resource state blocks the action.
	Conflict
)

func (o Outcome) String() string {
	switch o {
	case Permit:
		return "permit"
	case Unauthenticated:
		return "unauthenticated"
	case Forbid:
		return "forbid"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

type Decision struct {
	Outcome Outcome
	Reason  string
}

func (d Decision) Allowed() bool {
	return d.Outcome == Permit
}

func permit() Decision {
	return Decision{Outcome: Permit}
}

func forbid(reason string) Decision {
	return Decision{Outcome: Forbid, Reason: reason}
}

func conflict(reason string) Decision {
	return Decision{Outcome: Conflict, Reason: reason}
}

func loginRequired() Decision {
	return Decision{Outcome: Unauthenticated, Reason: "authorization required"}
}
