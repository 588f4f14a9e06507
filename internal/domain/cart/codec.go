package cart

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Encode serializes cart lines to the stored JSON layout:
// [{id,title,price,img,qty}]. The field set matches the original browser
// storage format, so pre-existing cart payloads remain readable.
func Encode(lines []Line) []byte {
	var e jx.Encoder
	e.ArrStart()
	for i := range lines {
		encodeLine(&e, &lines[i])
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeLine(e *jx.Encoder, l *Line) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(l.ProductID)
	e.FieldStart("title")
	e.Str(l.Title)
	e.FieldStart("price")
	e.Num(jx.Num(l.Price.String()))
	e.FieldStart("img")
	e.Str(l.ImageRef)
	e.FieldStart("qty")
	e.Int(l.Quantity)
	e.ObjEnd()
}

// Decode parses a stored cart payload.
func Decode(data []byte) ([]Line, error) {
	d := jx.DecodeBytes(data)
	var out []Line
	if err := d.Arr(func(d *jx.Decoder) error {
		l, err := decodeLine(d)
		if err != nil {
			return err
		}
		out = append(out, l)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return out, nil
}

func decodeLine(d *jx.Decoder) (Line, error) {
	var l Line
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int64()
			l.ProductID = v
			return err
		case "title":
			v, err := d.Str()
			l.Title = v
			return err
		case "price":
			n, err := d.Num()
			if err != nil {
				return err
			}
			v, err := decimal.NewFromString(strings.Trim(string(n), `"`))
			if err != nil {
				return errors.Wrap(err, "parse price")
			}
			l.Price = v
			return nil
		case "img":
			v, err := d.Str()
			l.ImageRef = v
			return err
		case "qty":
			v, err := d.Int()
			l.Quantity = v
			return err
		default:
			return d.Skip()
		}
	})
	return l, err
}
