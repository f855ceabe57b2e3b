// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "success", value: ExitSuccess, wantValid: true},
		{name: "failure", value: ExitFailure, wantValid: true},
		{name: "missing input", value: ExitMissingInput, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if tt.wantValid {
				if err != nil {
					t.Errorf("ExitCode(%d).Validate() returned error for valid value: %v", tt.value, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("ExitCode(%d).Validate() = %v, want ErrInvalidExitCode", tt.value, err)
			}
		})
	}
}

func TestExitCodeIsSuccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code ExitCode
		want bool
	}{
		{ExitSuccess, true},
		{ExitFailure, false},
		{ExitMissingInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			t.Parallel()
			if got := tt.code.IsSuccess(); got != tt.want {
				t.Errorf("ExitCode(%d).IsSuccess() = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
