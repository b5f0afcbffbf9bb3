package database

import "fmt"

// fasTagTransitions is the set of legal status transitions. Sold is terminal
// except for deactivation; any status can be deactivated.
var fasTagTransitions = map[string][]string{
	FasTagStatusInStock:     {FasTagStatusAssigned, FasTagStatusDeactivated},
	FasTagStatusAssigned:    {FasTagStatusAssigned, FasTagStatusInStock, FasTagStatusSold, FasTagStatusDeactivated},
	FasTagStatusSold:        {FasTagStatusDeactivated},
	FasTagStatusDeactivated: {},
}

// NormalizeFasTagStatus maps the legacy "available" literal onto the
// canonical in_stock value. Older exports used both interchangeably.
func NormalizeFasTagStatus(status string) string {
	if status == "available" {
		return FasTagStatusInStock
	}
	return status
}

// IsValidFasTagStatus reports whether status is one of the known lifecycle
// values after normalization
func IsValidFasTagStatus(status string) bool {
	_, ok := fasTagTransitions[NormalizeFasTagStatus(status)]
	return ok
}

// CanTransitionFasTag reports whether moving a tag from one status to
// another is legal. Same-status writes are allowed only for assigned
// (re-assignment between agents keeps the status).
func CanTransitionFasTag(from, to string) bool {
	from = NormalizeFasTagStatus(from)
	to = NormalizeFasTagStatus(to)
	for _, next := range fasTagTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckFasTagTransition returns a descriptive error for an illegal
// transition, nil otherwise
func CheckFasTagTransition(from, to string) error {
	if !IsValidFasTagStatus(to) {
		return fmt.Errorf("unknown FASTag status %q", to)
	}
	if from == NormalizeFasTagStatus(to) {
		return nil
	}
	if !CanTransitionFasTag(from, to) {
		return fmt.Errorf("illegal FASTag status transition %s -> %s", from, to)
	}
	return nil
}
