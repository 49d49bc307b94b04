package pricing

import (
	"errors"
	"fmt"
)

// Kind classifies why a pricing request was rejected.
type Kind int

const (
	_ Kind = iota // zero value: not a pricing error

	KindInvalidMemberCount
	KindUnknownFeature
	KindUnknownPlan
	KindCancelled
)

// String returns the kind's name as used in logs.
func (k Kind) String() string {
	switch k {
	case KindInvalidMemberCount:
		return "invalid_member_count"
	case KindUnknownFeature:
		return "unknown_feature"
	case KindUnknownPlan:
		return "unknown_plan"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// InvalidInput reports whether the kind is one of the input validation
// failures raised by Compute.
func (k Kind) InvalidInput() bool {
	return k == KindInvalidMemberCount || k == KindUnknownFeature
}

var (
	// ErrInvalidInput matches both member count and feature failures.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidMemberCount = errors.New("invalid member count")
	ErrUnknownFeature     = errors.New("feature not available for this plan")
	ErrUnknownPlan        = errors.New("unknown plan")

	// ErrCancelled is returned when the caller declined to confirm the plan.
	ErrCancelled = errors.New("plan cancelled by user")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidMemberCount:
		return ErrInvalidMemberCount
	case KindUnknownFeature:
		return ErrUnknownFeature
	case KindUnknownPlan:
		return ErrUnknownPlan
	case KindCancelled:
		return ErrCancelled
	default:
		return nil
	}
}

// Error is a rejected pricing request. Match it with errors.Is against the
// sentinels above, or extract the kind with KindOf.
type Error struct {
	Kind    Kind
	Plan    string // plan code, when known
	Feature string // offending feature code for KindUnknownFeature
	Members int    // offending count for KindInvalidMemberCount
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidMemberCount:
		if e.Members > 0 {
			return fmt.Sprintf("%v: %d members is too many to price", ErrInvalidMemberCount, e.Members)
		}
		return fmt.Sprintf("%v: got %d, must be greater than zero", ErrInvalidMemberCount, e.Members)
	case KindUnknownFeature:
		return fmt.Sprintf("%v: %s (plan %s)", ErrUnknownFeature, e.Feature, e.Plan)
	case KindUnknownPlan:
		return fmt.Sprintf("%v: %q", ErrUnknownPlan, e.Plan)
	case KindCancelled:
		return ErrCancelled.Error()
	default:
		return "pricing error"
	}
}

// Is reports whether target is this error's kind sentinel, or
// ErrInvalidInput for the input validation kinds.
func (e *Error) Is(target error) bool {
	if target == ErrInvalidInput {
		return e.Kind.InvalidInput()
	}
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind carried by err, or the zero Kind if err is not a
// pricing error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
