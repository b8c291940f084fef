// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problemfile

import (
	"strings"
	"testing"
)

const fixture = `
# comment lines without an equals sign are ignored
g = 9.81;
lambda_min = 0.1;
lambda_max = 5.0;
Delta = [ 0.05 0.05 0.05 0.05 ];
omega_i_min = -1;
omega_i_max = 1;
z_bar = 0.8;
zd_bar = 0;
z_f = 0.8;
Phi = [ 1 0 0 1 ];
`

func TestReadParsesAllFields(t *testing.T) {
	pb, err := Read(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pb.G != 9.81 || pb.LambdaMin != 0.1 || pb.LambdaMax != 5.0 {
		t.Fatalf("scalar fields: %+v", pb)
	}
	want := []float64{0.05, 0.05, 0.05, 0.05}
	if len(pb.Delta) != len(want) {
		t.Fatalf("Delta = %v, want length %d", pb.Delta, len(want))
	}
	for i, v := range want {
		if pb.Delta[i] != v {
			t.Fatalf("Delta[%d] = %v, want %v", i, pb.Delta[i], v)
		}
	}
	if len(pb.Phi) != 4 {
		t.Fatalf("Phi = %v, want length 4", pb.Phi)
	}
}

func TestReadDefaultsOptionalPhi(t *testing.T) {
	noPhi := strings.ReplaceAll(fixture, "Phi = [ 1 0 0 1 ];\n", "")
	pb, err := Read(strings.NewReader(noPhi))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pb.Phi != nil {
		t.Fatalf("Phi = %v, want nil when absent", pb.Phi)
	}
}

func TestReadRejectsMissingRequiredField(t *testing.T) {
	noG := strings.ReplaceAll(fixture, "g = 9.81;\n", "")
	_, err := Read(strings.NewReader(noG))
	if err == nil {
		t.Fatal("expected an error for a missing required field")
	}
}

func TestReadRejectsUnterminatedLine(t *testing.T) {
	bad := "g = 9.81\n"
	_, err := Read(strings.NewReader(bad))
	if err == nil {
		t.Fatal("expected an error for a line missing ';'")
	}
}

func TestReadRejectsMalformedVector(t *testing.T) {
	bad := strings.ReplaceAll(fixture, "Delta = [ 0.05 0.05 0.05 0.05 ];", "Delta = 0.05 0.05;")
	_, err := Read(strings.NewReader(bad))
	if err == nil {
		t.Fatal("expected an error for a non-bracketed vector value")
	}
}
