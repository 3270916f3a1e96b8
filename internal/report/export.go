package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"google.golang.org/protobuf/encoding/protowire"

	diagtest "github.com/jamesainslie/go-diagtest"
)

// Format selects a sweep export encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	// PB is the protobuf wire encoding of:
	//
	//	message Sweep {
	//	  sint32 power_min = 1;
	//	  sint32 power_max = 2;
	//	  repeated double prevalence = 3 [packed = true];
	//	  repeated double tick = 4 [packed = true];
	//	  repeated Curve curve = 5;
	//	  bool overridden = 6;
	//	}
	//	message Curve {
	//	  double sensitivity = 1;
	//	  double specificity = 2;
	//	  repeated double ppv = 3 [packed = true];
	//	  repeated double npv = 4 [packed = true];
	//	}
	PB Format = "pb"
)

// ErrUnknownFormat indicates an export format other than csv, json or pb.
var ErrUnknownFormat = errors.New("report: unknown export format")

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, JSON, PB:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// WriteSweep encodes s to w.
func WriteSweep(w io.Writer, s *diagtest.Sweep, f Format) error {
	switch f {
	case CSV:
		return writeCSV(w, s)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toDoc(s))
	case PB:
		_, err := w.Write(MarshalSweep(s))
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// One column pair per curve, numbered from 1.
func writeCSV(w io.Writer, s *diagtest.Sweep) error {
	cw := csv.NewWriter(w)

	header := []string{"prevalence"}
	for i := range s.Curves {
		n := strconv.Itoa(i + 1)
		header = append(header, "ppv_"+n, "npv_"+n)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for j, prevalence := range s.Prevalences {
		record := []string{formatFloat(prevalence)}
		for _, c := range s.Curves {
			record = append(record, formatFloat(c.PPV[j]), formatFloat(c.NPV[j]))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type sweepDoc struct {
	PowerMin    int        `json:"power_min"`
	PowerMax    int        `json:"power_max"`
	Overridden  bool       `json:"overridden,omitempty"`
	Prevalences []float64  `json:"prevalences"`
	Ticks       []float64  `json:"ticks"`
	Curves      []curveDoc `json:"curves"`
}

type curveDoc struct {
	Sensitivity float64   `json:"sensitivity"`
	Specificity float64   `json:"specificity"`
	PPV         []float64 `json:"ppv"`
	NPV         []float64 `json:"npv"`
}

func toDoc(s *diagtest.Sweep) sweepDoc {
	doc := sweepDoc{
		PowerMin:    s.PowerMin,
		PowerMax:    s.PowerMax,
		Overridden:  s.Overridden,
		Prevalences: s.Prevalences,
		Ticks:       s.Ticks,
		Curves:      make([]curveDoc, len(s.Curves)),
	}
	for i, c := range s.Curves {
		doc.Curves[i] = curveDoc{
			Sensitivity: c.Sensitivity,
			Specificity: c.Specificity,
			PPV:         c.PPV,
			NPV:         c.NPV,
		}
	}
	return doc
}

// MarshalSweep returns the PB encoding of s.
func MarshalSweep(s *diagtest.Sweep) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(s.PowerMin)))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(s.PowerMax)))
	b = appendDoubles(b, 3, s.Prevalences)
	b = appendDoubles(b, 4, s.Ticks)

	for _, c := range s.Curves {
		var cb []byte
		cb = protowire.AppendTag(cb, 1, protowire.Fixed64Type)
		cb = protowire.AppendFixed64(cb, math.Float64bits(c.Sensitivity))
		cb = protowire.AppendTag(cb, 2, protowire.Fixed64Type)
		cb = protowire.AppendFixed64(cb, math.Float64bits(c.Specificity))
		cb = appendDoubles(cb, 3, c.PPV)
		cb = appendDoubles(cb, 4, c.NPV)

		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, cb)
	}

	if s.Overridden {
		b = protowire.AppendTag(b, 6, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	return b
}

func appendDoubles(b []byte, num protowire.Number, vs []float64) []byte {
	if len(vs) == 0 {
		return b
	}
	packed := make([]byte, 0, 8*len(vs))
	for _, v := range vs {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// UnmarshalSweep decodes the PB encoding produced by MarshalSweep.
// Unknown fields are skipped.
func UnmarshalSweep(b []byte) (*diagtest.Sweep, error) {
	s := &diagtest.Sweep{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		var err error
		switch {
		case (num == 1 || num == 2 || num == 6) && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			switch num {
			case 1:
				s.PowerMin = int(protowire.DecodeZigZag(v))
			case 2:
				s.PowerMax = int(protowire.DecodeZigZag(v))
			case 6:
				s.Overridden = protowire.DecodeBool(v)
			}
		case (num == 3 || num == 4) && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				var vs []float64
				vs, err = decodeDoubles(v)
				if num == 3 {
					s.Prevalences = vs
				} else {
					s.Ticks = vs
				}
			}
		case num == 5 && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				var c diagtest.Curve
				c, err = unmarshalCurve(v)
				s.Curves = append(s.Curves, c)
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return s, nil
}

func unmarshalCurve(b []byte) (diagtest.Curve, error) {
	var c diagtest.Curve
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return c, protowire.ParseError(n)
		}
		b = b[n:]

		var err error
		switch {
		case (num == 1 || num == 2) && typ == protowire.Fixed64Type:
			var v uint64
			v, n = protowire.ConsumeFixed64(b)
			if num == 1 {
				c.Sensitivity = math.Float64frombits(v)
			} else {
				c.Specificity = math.Float64frombits(v)
			}
		case (num == 3 || num == 4) && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				var vs []float64
				vs, err = decodeDoubles(v)
				if num == 3 {
					c.PPV = vs
				} else {
					c.NPV = vs
				}
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return c, protowire.ParseError(n)
		}
		if err != nil {
			return c, err
		}
		b = b[n:]
	}
	return c, nil
}

func decodeDoubles(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("report: packed doubles of %d bytes", len(b))
	}
	vs := make([]float64, 0, len(b)/8)
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		vs = append(vs, math.Float64frombits(v))
		b = b[n:]
	}
	return vs, nil
}
