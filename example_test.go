package arraydb_test

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hupe1980/arraydb"
	"github.com/hupe1980/arraydb/codec"
)

// Example demonstrates the create, link, write, read cycle on a 3-D array.
func Example() {
	ctx := context.Background()
	tmp, err := os.MkdirTemp("", "arraydb-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmp)

	db, err := arraydb.Create(ctx, filepath.Join(tmp, "prices"), codec.F64{}, []uint64{100, 12, 31})
	if err != nil {
		log.Fatal(err)
	}

	// Allocate the row for (store 7, month 3) before touching its days.
	if err := db.Link(ctx, []uint64{7, 3}); err != nil {
		log.Fatal(err)
	}
	if err := db.Write(ctx, []uint64{7, 3, 15}, 19.99); err != nil {
		log.Fatal(err)
	}

	v, err := db.Read(ctx, []uint64{7, 3, 15})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(v)
	// Output: 19.99
}

// Example_readStream demonstrates streaming a range of the last axis and
// decoding it with codec.UnpackAll.
func Example_readStream() {
	ctx := context.Background()
	tmp, err := os.MkdirTemp("", "arraydb-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmp)

	db, err := arraydb.Create(ctx, filepath.Join(tmp, "counts"), codec.U64{}, []uint64{2, 5})
	if err != nil {
		log.Fatal(err)
	}
	for x := uint64(1); x <= 5; x++ {
		if err := db.Write(ctx, []uint64{2, x}, x*x); err != nil {
			log.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := db.ReadStream(ctx, &buf, []uint64{2, 2}, 3); err != nil {
		log.Fatal(err)
	}
	values, err := codec.UnpackAll(&buf, codec.U64{}, 3)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(values)
	// Output: [4 9 16]
}

// Example_notLinked shows the typed error for an address whose prefix was
// never linked.
func Example_notLinked() {
	ctx := context.Background()
	tmp, err := os.MkdirTemp("", "arraydb-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmp)

	db, err := arraydb.Create(ctx, filepath.Join(tmp, "sparse"), codec.NullableF64{}, []uint64{4, 4, 4})
	if err != nil {
		log.Fatal(err)
	}

	_, err = db.Read(ctx, []uint64{2, 3, 1})
	fmt.Println(err)
	// Output: elements not linked: dimension 0 = 2, dimension 1 = 3
}
