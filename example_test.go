package squeeze_test

import (
	"context"
	"fmt"
	"log"

	"github.com/discochess/squeeze"
)

func ExampleEngine_Compress() {
	engine, err := squeeze.New()
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	ctx := context.Background()
	packed, st, err := engine.Compress(ctx, squeeze.Huffman, []byte("AAAAABBBCC"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %d -> %d bytes\n", st.Algorithm, st.OriginalSize, st.EncodedSize)

	unpacked, _, err := engine.Decompress(ctx, squeeze.Huffman, packed)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(unpacked))
	// Output:
	// huffman: 10 -> 15 bytes
	// AAAAABBBCC
}
