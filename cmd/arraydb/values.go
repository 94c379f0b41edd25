package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/arraydb/codec"
)

// valueType binds a codec to the textual form used on the command line.
type valueType[T any] struct {
	codec  codec.Codec[T]
	parse  func(string) (T, error)
	format func(T) string
}

var (
	u64Type = valueType[uint64]{
		codec:  codec.U64{},
		parse:  func(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) },
		format: func(v uint64) string { return strconv.FormatUint(v, 10) },
	}
	i16Type = valueType[int16]{
		codec: codec.I16{},
		parse: func(s string) (int16, error) {
			v, err := strconv.ParseInt(s, 10, 16)
			return int16(v), err
		},
		format: func(v int16) string { return strconv.FormatInt(int64(v), 10) },
	}
	f64Type = valueType[float64]{
		codec:  codec.F64{},
		parse:  func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
		format: func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
	}
	nf64Type = valueType[codec.NullFloat64]{
		codec: codec.NullableF64{},
		parse: func(s string) (codec.NullFloat64, error) {
			if strings.EqualFold(s, "null") {
				return codec.NullFloat64{}, nil
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return codec.NullFloat64{}, err
			}
			return codec.Float(v), nil
		},
		format: codec.NullFloat64.String,
	}
	textType = valueType[string]{
		codec:  codec.TinyText{},
		parse:  func(s string) (string, error) { return s, nil },
		format: strconv.Quote,
	}
)

func parseCoords(args []string) ([]uint64, error) {
	out := make([]uint64, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
