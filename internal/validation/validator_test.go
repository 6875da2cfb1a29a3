// Ratingraph - Bipartite Rating Graph Preprocessing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ratingraph

package validation

import (
	"strings"
	"testing"
)

type testStruct struct {
	Dataset  string  `validate:"required,dataset"`
	Dir      string  `validate:"required"`
	Mirror   string  `validate:"omitempty,url"`
	Level    string  `validate:"omitempty,oneof=debug info warn"`
	Fraction float64 `validate:"gte=0,lt=1"`
}

func validInput() testStruct {
	return testStruct{
		Dataset:  "ml_100k",
		Dir:      "data",
		Mirror:   "https://example.com/datasets",
		Level:    "info",
		Fraction: 0.1,
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	in := validInput()
	if verr := ValidateStruct(&in); verr != nil {
		t.Errorf("ValidateStruct() = %v, want nil", verr)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*testStruct)
		wantTag  string
		wantText string
	}{
		{
			name:     "missing required field",
			mutate:   func(s *testStruct) { s.Dir = "" },
			wantTag:  "required",
			wantText: "Dir is required",
		},
		{
			name:     "unknown dataset",
			mutate:   func(s *testStruct) { s.Dataset = "netflix" },
			wantTag:  "dataset",
			wantText: "registered dataset",
		},
		{
			name:     "bad url",
			mutate:   func(s *testStruct) { s.Mirror = "not a url" },
			wantTag:  "url",
			wantText: "valid URL",
		},
		{
			name:     "value outside oneof set",
			mutate:   func(s *testStruct) { s.Level = "verbose" },
			wantTag:  "oneof",
			wantText: "must be one of",
		},
		{
			name:     "fraction out of range",
			mutate:   func(s *testStruct) { s.Fraction = 1.5 },
			wantTag:  "lt",
			wantText: "less than",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			verr := ValidateStruct(&in)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(verr.Errors()) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(verr.Errors()), verr)
			}
			fe := verr.Errors()[0]
			if fe.Tag() != tt.wantTag {
				t.Errorf("tag = %q, want %q", fe.Tag(), tt.wantTag)
			}
			if !strings.Contains(fe.Error(), tt.wantText) {
				t.Errorf("message %q does not contain %q", fe.Error(), tt.wantText)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	in := testStruct{Fraction: 2}

	verr := ValidateStruct(&in)
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if len(verr.Errors()) < 3 {
		t.Errorf("got %d errors, want at least 3: %v", len(verr.Errors()), verr)
	}
	if !strings.Contains(verr.Error(), ";") {
		t.Errorf("combined message %q missing separator", verr.Error())
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}
