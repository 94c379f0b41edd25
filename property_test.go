package arraydb

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraydb/codec"
	"github.com/hupe1980/arraydb/testutil"
)

func key(addr []uint64) string { return fmt.Sprint(addr) }

// roundTripProperty writes random values at random addresses of random
// shapes and checks every read, stream and size invariant against a model.
func roundTripProperty[T any](t *testing.T, c codec.Codec[T], gen func(*testutil.RNG) T) {
	rng := testutil.NewRNG(4711)

	for round := range 12 {
		n := 1 + round%5
		axes := rng.Shape(n, 4)

		t.Run(fmt.Sprintf("%s/%v", c.Name(), axes), func(t *testing.T) {
			ctx := t.Context()
			db := newTestDB(t, c, axes)
			model := map[string]T{}
			linked := map[string]bool{}

			// Fresh database reads zero everywhere.
			var zero T
			if n <= 2 {
				v, err := db.Read(ctx, rng.Address(axes))
				require.NoError(t, err)
				assert.Equal(t, zero, v)
			}

			for range 40 {
				addr := rng.Address(axes)
				if n >= 3 {
					prefix := addr[:n-1]
					require.NoError(t, db.Link(ctx, prefix))
					linked[key(prefix)] = true

					v, err := db.Read(ctx, addr)
					require.NoError(t, err)
					if want, ok := model[key(addr)]; ok {
						assert.Equal(t, want, v)
					} else {
						assert.Equal(t, zero, v)
					}
				}

				v := gen(rng)
				require.NoError(t, db.Write(ctx, addr, v))
				model[key(addr)] = v

				got, err := db.Read(ctx, addr)
				require.NoError(t, err)
				assert.Equal(t, v, got)
			}

			if n >= 3 {
				rowBytes := int64(axes[n-1]) * int64(c.ValueSize())
				assert.Equal(t, int64(len(linked))*rowBytes, dataSize(t, db.Dir()))
			}

			// Stream every linked row and compare with the model.
			last := axes[n-1]
			for range 5 {
				addr := rng.Address(axes)
				if n >= 3 && !linked[key(addr[:n-1])] {
					continue
				}
				addr[n-1] = 1

				var buf bytes.Buffer
				require.NoError(t, db.ReadStream(ctx, &buf, addr, last))
				vals, err := codec.UnpackAll(&buf, c, last)
				require.NoError(t, err)

				for i, v := range vals {
					cell := append(append([]uint64{}, addr[:n-1]...), uint64(i)+1)
					assert.Equal(t, model[key(cell)], v, "cell %v", cell)
				}
			}

			report, err := db.Check(ctx)
			require.NoError(t, err)
			assert.True(t, report.OK(), report.Problems())
		})
	}
}

func TestRoundTripProperty(t *testing.T) {
	roundTripProperty(t, codec.U64{}, (*testutil.RNG).Uint64)
	roundTripProperty(t, codec.I16{}, (*testutil.RNG).Int16)
	roundTripProperty(t, codec.F64{}, (*testutil.RNG).Float64)
	roundTripProperty(t, codec.NullableF64{}, (*testutil.RNG).NullFloat64)
	roundTripProperty(t, codec.TinyText{}, func(r *testutil.RNG) string { return r.Text(codec.MaxTinyTextLen) })
}
