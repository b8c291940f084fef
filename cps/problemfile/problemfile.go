// Copyright ©2025 go-numerics. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package problemfile reads the "key = value ;" text format used by
// integration-test fixtures to describe a centroidal-pendulum trajectory
// problem: plain lines of the form `key = value;`, where value is either a
// bare number or a bracketed vector `[ a b c ]`.
//
// This is a thin, separately-packaged reader, not part of the numerical
// core in ../. Grounded on original_source/c++/src/Problem.cpp's
// RawProblem::read and its anonymous-namespace parseDouble_/parseVector_
// helpers, transcribed from C++'s stream-based parsing into Go's
// bufio.Scanner/strconv idiom.
package problemfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// RawProblem holds the raw physical parameters read from a fixture file,
// mirroring the C++ RawProblem struct's fields exactly. Phi is optional and
// nil if absent from the file.
type RawProblem struct {
	G                          float64
	LambdaMin, LambdaMax       float64
	Delta                      []float64
	InitOmegaMin, InitOmegaMax float64
	InitZBar, InitZBarDeriv    float64
	TargetHeight               float64
	Phi                        []float64
}

// ReadFile opens path and parses it as a RawProblem.
func ReadFile(path string) (*RawProblem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses r as a RawProblem. Every required field (g, lambda_min,
// lambda_max, Delta, omega_i_min, omega_i_max, z_bar, zd_bar, z_f) must be
// present; Phi is optional.
func Read(r io.Reader) (*RawProblem, error) {
	table, err := readTable(r)
	if err != nil {
		return nil, err
	}

	pb := &RawProblem{}
	fields := []struct {
		name string
		dst  *float64
	}{
		{"g", &pb.G},
		{"lambda_min", &pb.LambdaMin},
		{"lambda_max", &pb.LambdaMax},
		{"omega_i_min", &pb.InitOmegaMin},
		{"omega_i_max", &pb.InitOmegaMax},
		{"z_bar", &pb.InitZBar},
		{"zd_bar", &pb.InitZBarDeriv},
		{"z_f", &pb.TargetHeight},
	}
	for _, f := range fields {
		v, err := parseDouble(table, f.name, false, 0)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	if pb.Delta, err = parseVector(table, "Delta", false); err != nil {
		return nil, err
	}
	if pb.Phi, err = parseVector(table, "Phi", true); err != nil {
		return nil, err
	}
	return pb, nil
}

// readTable scans "key = value ;" lines into a lookup table, matching the
// original's find("=")/find(";") line scan.
func readTable(r io.Reader) (map[string]string, error) {
	table := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		semi := strings.Index(line[eq+1:], ";")
		if semi < 0 {
			return nil, fmt.Errorf("problemfile: error in reading line %q: missing ';'", line)
		}
		value := strings.TrimSpace(line[eq+1 : eq+1+semi])
		table[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

func parseDouble(table map[string]string, key string, optional bool, defaultValue float64) (float64, error) {
	raw, ok := table[key]
	if !ok {
		if optional {
			return defaultValue, nil
		}
		return 0, fmt.Errorf("problemfile: no element %q found in the file", key)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("problemfile: failed to read double value for %q: %w", key, err)
	}
	return v, nil
}

func parseVector(table map[string]string, key string, optional bool) ([]float64, error) {
	raw, ok := table[key]
	if !ok {
		if optional {
			return nil, nil
		}
		return nil, fmt.Errorf("problemfile: no element %q found in the file", key)
	}
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil, fmt.Errorf("problemfile: vector value for %q must be bracketed, got %q", key, raw)
	}
	fields := strings.Fields(raw[1 : len(raw)-1])
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("problemfile: failed to read vector value for %q: %w", key, err)
		}
		out[i] = v
	}
	return out, nil
}
