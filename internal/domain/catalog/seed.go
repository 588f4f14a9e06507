package catalog

import (
	_ "embed"

	"github.com/go-faster/errors"
)

// defaultSeed contains the demo catalog shipped with the storefront.
//
//go:embed seed/products.json
var defaultSeed []byte

// DefaultSeed returns the embedded demo catalog.
func DefaultSeed() ([]Product, error) {
	products, err := Decode(defaultSeed)
	if err != nil {
		return nil, errors.Wrap(err, "decode embedded seed")
	}
	return products, nil
}
