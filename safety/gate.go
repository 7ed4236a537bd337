// Package safety decides whether a requested joint change may be applied, based on where the end effector is and
// which way each joint last moved.
package safety

import (
	"github.com/golang/geo/r3"

	"go.viam.com/owiarm/logging"
	"go.viam.com/owiarm/referenceframe"
	"go.viam.com/owiarm/utils"
)

// DefaultPlaneY is the height above which the end effector may move freely.
const DefaultPlaneY = 0.5

// Decision is the outcome of a joint change request.
type Decision int

const (
	// Rejected means nothing was changed.
	Rejected Decision = iota
	// Accepted means the change was applied.
	Accepted
)

func (d Decision) String() string {
	if d == Accepted {
		return "accepted"
	}
	return "rejected"
}

// Model is the part of the kinematic model the gate reads and drives.
type Model interface {
	WorldPosition() r3.Vector
	ViolatesWorkspace() bool
	JointState() referenceframe.JointState
	Limits() []referenceframe.Limit
	ApplyJointDelta(index int, newValue, previousValue float64) error
}

// Gate filters joint change requests. It remembers the sign of the last accepted delta for each joint so that a
// move back out of a violation is allowed. A Gate is not safe for concurrent use.
type Gate struct {
	model    Model
	planeY   float64
	lastSign [referenceframe.DoF]int
	logger   logging.Logger
}

// NewGate returns a gate in front of model. Positions with Y at or above planeY are considered clear.
func NewGate(model Model, planeY float64, logger logging.Logger) *Gate {
	return &Gate{model: model, planeY: planeY, logger: logger}
}

// RequestJointChange moves joint index to candidate if the move is allowed. The candidate is clamped into the
// joint's limit first. An invalid index or a NaN or infinite candidate is an error, never a rejection.
func (g *Gate) RequestJointChange(index int, candidate float64) (Decision, error) {
	if err := referenceframe.ValidateIndex(index); err != nil {
		return Rejected, err
	}
	if err := referenceframe.CheckFinite(index, candidate); err != nil {
		return Rejected, err
	}
	candidate = g.model.Limits()[index].Clamp(candidate)
	previous := g.model.JointState()[index]
	sign := utils.Sign(candidate - previous)
	if sign == 0 {
		return Accepted, nil
	}

	if !g.allowed(index, sign) {
		g.logger.Debugw("joint change rejected", "joint", referenceframe.JointNames[index],
			"from", previous, "to", candidate, "last_sign", g.lastSign[index])
		return Rejected, nil
	}
	if err := g.model.ApplyJointDelta(index, candidate, previous); err != nil {
		return Rejected, err
	}
	g.lastSign[index] = sign
	return Accepted, nil
}

func (g *Gate) allowed(index, sign int) bool {
	pos := g.model.WorldPosition()
	violating := g.model.ViolatesWorkspace()
	switch {
	case pos.Y >= g.planeY && !violating:
		return true
	case g.lastSign[index] != 0 && sign == -g.lastSign[index]:
		return true
	case index == referenceframe.BaseYaw && !violating:
		return true
	default:
		return false
	}
}

// LastSign returns the sign of the last accepted delta for joint index, or 0 if none.
func (g *Gate) LastSign(index int) int {
	if index < 0 || index >= referenceframe.DoF {
		return 0
	}
	return g.lastSign[index]
}

// Reset forgets every remembered direction.
func (g *Gate) Reset() {
	g.lastSign = [referenceframe.DoF]int{}
}
