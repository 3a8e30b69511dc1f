package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestFaultStatus_String(t *testing.T) {
	tests := []struct {
		status FaultStatus
		want   string
	}{
		{FaultNone, "none"},
		{FaultTimeout, "timeout"},
		{FaultNoProgress, "no progress"},
		{FaultBadState, "bad state"},
		{FaultUnsupported, "unsupported"},
		{FaultLocked, "locked"},
		{FaultStatus(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("FaultStatus.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFaultStatus_Error(t *testing.T) {
	tests := []struct {
		status  FaultStatus
		wantErr error
	}{
		{FaultNone, nil},
		{FaultTimeout, ErrClockFault},
		{FaultNoProgress, ErrNoProgress},
		{FaultBadState, ErrInvalidState},
		{FaultUnsupported, ErrUnsupportedFrequency},
		{FaultLocked, ErrProtectionLocked},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			err := tt.status.Error()
			if tt.wantErr == nil && err != nil {
				t.Errorf("FaultStatus.Error() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("FaultStatus.Error() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want FaultStatus
	}{
		{nil, FaultNone},
		{ErrClockFault, FaultTimeout},
		{fmt.Errorf("PLL lock: %w", ErrClockFault), FaultTimeout},
		{ErrNoProgress, FaultNoProgress},
		{ErrInvalidState, FaultBadState},
		{ErrUnsupportedFrequency, FaultUnsupported},
		{ErrProtectionLocked, FaultLocked},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSentinelErrors(t *testing.T) {
	// Verify all sentinel errors are distinct
	errs := []error{
		ErrUnsupportedFrequency,
		ErrClockFault,
		ErrNoProgress,
		ErrInvalidState,
		ErrProtectionLocked,
		ErrOscillatorDisabled,
		ErrInvalidParameter,
	}

	for i, err1 := range errs {
		if err1 == nil {
			t.Errorf("error %d is nil", i)
			continue
		}
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("error %d and %d are equal", i, j)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err     error
		wantMsg string
	}{
		{ErrUnsupportedFrequency, "unsupported frequency"},
		{ErrClockFault, "clock hardware fault"},
		{ErrNoProgress, "clock transition made no progress"},
		{ErrProtectionLocked, "power mode protection locked"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("error.Error() = %v, want %v", got, tt.wantMsg)
			}
		})
	}
}
