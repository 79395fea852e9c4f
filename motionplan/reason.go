package motionplan

import "strings"

// InvalidationReason is a set of the constraints a pose violates.
type InvalidationReason uint8

const (
	// DriveBase is set when some part of the stem intersects the drive base.
	DriveBase InvalidationReason = 1 << iota
	// Walls is set when a characteristic point leaves the allowed bounds.
	Walls
)

const (
	// None means the pose is valid.
	None InvalidationReason = 0
	// DriveBaseAndWalls means both constraints are violated.
	DriveBaseAndWalls = DriveBase | Walls
)

// NewInvalidationReason combines the two independent violations into a reason.
func NewInvalidationReason(driveBaseViolated, wallsViolated bool) InvalidationReason {
	reason := None
	if driveBaseViolated {
		reason |= DriveBase
	}
	if wallsViolated {
		reason |= Walls
	}
	return reason
}

// Valid reports whether no constraint is violated.
func (r InvalidationReason) Valid() bool {
	return r == None
}

// DriveBaseViolated reports whether the drive base constraint is violated.
func (r InvalidationReason) DriveBaseViolated() bool {
	return r&DriveBase != 0
}

// WallsViolated reports whether the allowed bounds constraint is violated.
func (r InvalidationReason) WallsViolated() bool {
	return r&Walls != 0
}

func (r InvalidationReason) String() string {
	if r == None {
		return "NONE"
	}
	var parts []string
	if r.DriveBaseViolated() {
		parts = append(parts, "DRIVE_BASE")
	}
	if r.WallsViolated() {
		parts = append(parts, "WALLS")
	}
	return strings.Join(parts, "_AND_")
}
