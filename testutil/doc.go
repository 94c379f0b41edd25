// Package testutil provides testing utilities for arraydb.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic RNG and generators for shapes, addresses
// and values.
//
// # Shapes and Addresses
//
//	rng := testutil.NewRNG(seed)
//	axes := rng.Shape(4, 6)          // 4 axes, capacities in 1..6
//	addr := rng.Address(axes)        // uniform valid address
//	prefixes := rng.Prefixes(axes, 10)
//
// # Values
//
//	rng.Text(200)     // valid UTF-8, at most 200 bytes
//	rng.NullFloat64() // null about one time in four
package testutil
