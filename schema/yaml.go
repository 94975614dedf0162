package schema

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/xpbridge/errors"
)

// Document is the on-disk form of already-resolved interfaces.
type Document struct {
	Interfaces []InterfaceDoc `yaml:"interfaces"`
}

type InterfaceDoc struct {
	Name       string         `yaml:"name"`
	IID        string         `yaml:"iid"`
	Parent     string         `yaml:"parent"`
	Constants  []ConstantDoc  `yaml:"constants"`
	Attributes []AttributeDoc `yaml:"attributes"`
	Methods    []MethodDoc    `yaml:"methods"`
}

type ConstantDoc struct {
	Value any    `yaml:"value"`
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
}

type AttributeDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	IID      string `yaml:"iid"`
	ReadOnly bool   `yaml:"readonly"`
}

type MethodDoc struct {
	Name   string     `yaml:"name"`
	Params []ParamDoc `yaml:"params"`
}

type ParamDoc struct {
	Name     string `yaml:"name"`
	Dir      string `yaml:"dir"`
	Type     string `yaml:"type"`
	IID      string `yaml:"iid"`
	SizeIs   string `yaml:"size_is"`
	Retval   bool   `yaml:"retval"`
	Optional bool   `yaml:"optional"`
}

// LoadYAML decodes a Document and registers every interface it declares,
// in document order.
func (r *Resolver) LoadYAML(rd io.Reader) error {
	ifaces, err := DecodeYAML(rd)
	if err != nil {
		return err
	}
	for _, iface := range ifaces {
		if err := r.Register(iface); err != nil {
			return err
		}
	}
	return nil
}

// DecodeYAML decodes a Document into validated interfaces without
// registering them.
func DecodeYAML(rd io.Reader) ([]*Interface, error) {
	var doc Document
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.ParseFailed("schema document", err)
	}

	out := make([]*Interface, 0, len(doc.Interfaces))
	for _, d := range doc.Interfaces {
		iface, err := d.build()
		if err != nil {
			return nil, err
		}
		out = append(out, iface)
	}
	return out, nil
}

func (d *InterfaceDoc) build() (*Interface, error) {
	var iid uuid.UUID
	if d.IID != "" {
		var err error
		if iid, err = ParseIID(d.IID); err != nil {
			return nil, errors.Registration(d.Name, "iid", err)
		}
	}
	iface := NewInterface(d.Name, iid, d.Parent)

	for _, c := range d.Constants {
		typ, err := parseTypeDoc(c.Type, "")
		if err != nil {
			return nil, errors.Registration(d.Name, "constant "+c.Name, err)
		}
		v, err := constantValue(typ.Tag, c.Value)
		if err != nil {
			return nil, errors.Registration(d.Name, "constant "+c.Name, err)
		}
		if err := iface.AddConstant(c.Name, typ, v); err != nil {
			return nil, err
		}
	}

	for _, a := range d.Attributes {
		typ, err := parseTypeDoc(a.Type, a.IID)
		if err != nil {
			return nil, errors.Registration(d.Name, "attribute "+a.Name, err)
		}
		if err := iface.AddAttribute(a.Name, typ, a.ReadOnly); err != nil {
			return nil, err
		}
	}

	for _, m := range d.Methods {
		sig, err := m.build()
		if err != nil {
			return nil, errors.Registration(d.Name, "method "+m.Name, err)
		}
		if err := iface.AddMethod(sig); err != nil {
			return nil, err
		}
	}
	return iface, nil
}

func (m *MethodDoc) build() (*Signature, error) {
	index := make(map[string]int, len(m.Params))
	for i, p := range m.Params {
		index[p.Name] = i
	}

	params := make([]Param, len(m.Params))
	for i, p := range m.Params {
		dir, ok := ParseDirection(p.Dir)
		if !ok {
			return nil, fmt.Errorf("param %s: unknown direction %q", p.Name, p.Dir)
		}
		typ, err := parseTypeDoc(p.Type, p.IID)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", p.Name, err)
		}
		size := -1
		if p.SizeIs != "" {
			idx, ok := index[p.SizeIs]
			if !ok {
				return nil, fmt.Errorf("param %s: size_is names unknown param %q", p.Name, p.SizeIs)
			}
			size = idx
		}
		params[i] = Param{
			Name:      p.Name,
			Type:      typ,
			Direction: dir,
			SizeIs:    size,
			Retval:    p.Retval,
			Optional:  p.Optional,
		}
	}
	return NewSignature(m.Name, params...)
}

// ParseType parses a type expression: a tag name or alias, or array<T>.
// An interface pointer's required iid is supplied separately.
func ParseType(expr string) (Type, error) {
	return parseTypeDoc(expr, "")
}

func parseTypeDoc(expr, iid string) (Type, error) {
	expr = strings.TrimSpace(expr)
	if inner, ok := strings.CutPrefix(expr, "array<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return Type{}, fmt.Errorf("unterminated array type %q", expr)
		}
		elem, err := parseTypeDoc(inner, iid)
		if err != nil {
			return Type{}, err
		}
		return ArrayOf(elem), nil
	}

	tag, ok := ParseTag(expr)
	if !ok {
		return Type{}, fmt.Errorf("unknown type %q", expr)
	}
	typ := Scalar(tag)
	if tag == TagInterface {
		if iid == "" {
			return Type{}, fmt.Errorf("interface-pointer needs an iid")
		}
		id, err := ParseIID(iid)
		if err != nil {
			return Type{}, err
		}
		typ.IID = id
	}
	return typ, nil
}

// constantValue converts a decoded YAML scalar to the native type of tag.
func constantValue(tag Tag, raw any) (any, error) {
	switch tag {
	case TagBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("want boolean, got %T", raw)
		}
		return b, nil
	case TagFloat, TagDouble:
		var f float64
		switch v := raw.(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		default:
			return nil, fmt.Errorf("want number, got %T", raw)
		}
		if tag == TagFloat {
			return float32(f), nil
		}
		return f, nil
	}

	if !tag.IsInteger() {
		return nil, fmt.Errorf("unsupported constant type %s", tag)
	}
	var (
		n   int64
		u   uint64
		neg bool
	)
	switch v := raw.(type) {
	case int:
		n, neg = int64(v), v < 0
		u = uint64(v)
	case uint64:
		if v > math.MaxInt64 && tag != TagULongLong {
			return nil, fmt.Errorf("value %d overflows %s", v, tag)
		}
		n, u = int64(v), v
	default:
		return nil, fmt.Errorf("want integer, got %T", raw)
	}

	fits := func(lo, hi int64) bool { return !neg && u <= uint64(hi) || neg && n >= lo }
	switch tag {
	case TagOctet:
		if fits(0, math.MaxUint8) {
			return uint8(n), nil
		}
	case TagShort:
		if fits(math.MinInt16, math.MaxInt16) {
			return int16(n), nil
		}
	case TagUShort:
		if fits(0, math.MaxUint16) {
			return uint16(n), nil
		}
	case TagLong:
		if fits(math.MinInt32, math.MaxInt32) {
			return int32(n), nil
		}
	case TagULong:
		if fits(0, math.MaxUint32) {
			return uint32(n), nil
		}
	case TagLongLong:
		if fits(math.MinInt64, math.MaxInt64) {
			return n, nil
		}
	case TagULongLong:
		if !neg {
			return u, nil
		}
	}
	return nil, fmt.Errorf("value %v overflows %s", raw, tag)
}
