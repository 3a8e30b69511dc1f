package pkg

import "errors"

// Clock driver errors.
var (
	// ErrUnsupportedFrequency indicates a requested frequency outside the
	// documented PLL/FLL value tables.
	ErrUnsupportedFrequency = errors.New("unsupported frequency")

	// ErrClockFault indicates a status bit that never reached its expected
	// value within the poll budget.
	ErrClockFault = errors.New("clock hardware fault")

	// ErrNoProgress indicates a state-machine walk that exceeded the
	// legality graph diameter without reaching its target.
	ErrNoProgress = errors.New("clock transition made no progress")

	// ErrInvalidState indicates a status register encoding that does not
	// correspond to any documented clock configuration.
	ErrInvalidState = errors.New("unrecognized clock state")

	// ErrProtectionLocked indicates a power-mode operation that conflicts
	// with the write-once protection register.
	ErrProtectionLocked = errors.New("power mode protection locked")

	// ErrOscillatorDisabled indicates a PLL operation attempted while the
	// external oscillator path is down.
	ErrOscillatorDisabled = errors.New("oscillator disabled")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// FaultStatus classifies the outcome of a clock reconfiguration.
type FaultStatus int

// Fault status values.
const (
	FaultNone        FaultStatus = iota // Reconfiguration completed
	FaultTimeout                        // A status poll exhausted its budget
	FaultNoProgress                     // The transition walk stalled
	FaultBadState                       // Hardware state could not be decoded
	FaultUnsupported                    // Off-table frequency requested
	FaultLocked                         // Protection register already written
)

// String returns a string representation of the fault status.
func (s FaultStatus) String() string {
	switch s {
	case FaultNone:
		return "none"
	case FaultTimeout:
		return "timeout"
	case FaultNoProgress:
		return "no progress"
	case FaultBadState:
		return "bad state"
	case FaultUnsupported:
		return "unsupported"
	case FaultLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Error returns the corresponding error for the fault status.
func (s FaultStatus) Error() error {
	switch s {
	case FaultNone:
		return nil
	case FaultTimeout:
		return ErrClockFault
	case FaultNoProgress:
		return ErrNoProgress
	case FaultBadState:
		return ErrInvalidState
	case FaultUnsupported:
		return ErrUnsupportedFrequency
	case FaultLocked:
		return ErrProtectionLocked
	default:
		return ErrInvalidParameter
	}
}

// Classify maps an error returned by the clock driver to a FaultStatus.
func Classify(err error) FaultStatus {
	switch {
	case err == nil:
		return FaultNone
	case errors.Is(err, ErrClockFault):
		return FaultTimeout
	case errors.Is(err, ErrNoProgress):
		return FaultNoProgress
	case errors.Is(err, ErrInvalidState):
		return FaultBadState
	case errors.Is(err, ErrUnsupportedFrequency):
		return FaultUnsupported
	case errors.Is(err, ErrProtectionLocked):
		return FaultLocked
	default:
		return FaultStatus(-1)
	}
}
