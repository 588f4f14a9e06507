package catalog

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Encode serializes products to the stored JSON layout:
// [{id,title,price,category,img,rating,desc}].
func Encode(products []Product) []byte {
	var e jx.Encoder
	e.ArrStart()
	for i := range products {
		encodeProduct(&e, &products[i])
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeProduct(e *jx.Encoder, p *Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("title")
	e.Str(p.Title)
	e.FieldStart("price")
	e.Num(jx.Num(p.Price.String()))
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("img")
	e.Str(p.ImageRef)
	e.FieldStart("rating")
	e.Float64(p.Rating)
	e.FieldStart("desc")
	e.Str(p.Description)
	e.ObjEnd()
}

// Decode parses a stored catalog payload.
func Decode(data []byte) ([]Product, error) {
	d := jx.DecodeBytes(data)
	var out []Product
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return out, nil
}

func decodeProduct(d *jx.Decoder) (Product, error) {
	var p Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int64()
			p.ID = v
			return err
		case "title":
			v, err := d.Str()
			p.Title = v
			return err
		case "price":
			v, err := decodePrice(d)
			p.Price = v
			return err
		case "category":
			v, err := d.Str()
			p.Category = v
			return err
		case "img":
			v, err := d.Str()
			p.ImageRef = v
			return err
		case "rating":
			v, err := d.Float64()
			p.Rating = v
			return err
		case "desc":
			v, err := d.Str()
			p.Description = v
			return err
		default:
			return d.Skip()
		}
	})
	return p, err
}

// decodePrice accepts both raw numbers and quoted decimal strings, so
// hand-edited seed files keep working.
func decodePrice(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(strings.Trim(string(n), `"`))
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "parse price")
	}
	return v, nil
}
