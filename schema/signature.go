package schema

import (
	"github.com/google/uuid"

	"github.com/wippyai/xpbridge/errors"
)

// Direction is the data flow of a parameter relative to the native side.
type Direction uint8

const (
	In Direction = iota
	Out
	InOut
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	case InOut:
		return "inout"
	}
	return "unknown"
}

// ParseDirection accepts "in", "out" and "inout"; empty means in.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "", "in":
		return In, true
	case "out":
		return Out, true
	case "inout":
		return InOut, true
	}
	return In, false
}

// Reads reports whether the caller supplies a value for this direction.
func (d Direction) Reads() bool { return d == In || d == InOut }

// Writes reports whether the native side produces a value for this direction.
func (d Direction) Writes() bool { return d == Out || d == InOut }

// Type is a declared type: a tag plus the element type for arrays and the
// required interface for interface pointers.
type Type struct {
	Elem *Type
	IID  uuid.UUID
	Tag  Tag
}

// Scalar returns a Type for a non-array tag.
func Scalar(tag Tag) Type {
	return Type{Tag: tag}
}

// ArrayOf returns an array Type of the given element type.
func ArrayOf(elem Type) Type {
	e := elem
	return Type{Tag: TagArray, Elem: &e}
}

// InterfaceOf returns an interface pointer Type requiring iid.
func InterfaceOf(iid uuid.UUID) Type {
	return Type{Tag: TagInterface, IID: iid}
}

func (t Type) String() string {
	if t.Tag == TagArray && t.Elem != nil {
		return "array<" + t.Elem.String() + ">"
	}
	return t.Tag.String()
}

// Param declares one parameter of a Signature.
//
// SizeIs is the index of the paired size parameter for arrays and
// length-prefixed strings, or -1. Optional marks trailing parameters that
// the caller may omit.
type Param struct {
	Name      string
	Type      Type
	SizeIs    int
	Direction Direction
	Retval    bool
	Optional  bool
}

// Signature is the resolved shape of a method or attribute accessor.
// It is immutable once registered.
type Signature struct {
	Name   string
	Params []Param
	// sizeOf[i] lists the sized params bound to params[i] as their count
	sizeOf [][]int
}

// NewSignature validates params and builds a Signature.
func NewSignature(name string, params ...Param) (*Signature, error) {
	s := &Signature{Name: name, Params: params}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustSignature is NewSignature that panics on error, for static tables.
func MustSignature(name string, params ...Param) *Signature {
	s, err := NewSignature(name, params...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Signature) validate() error {
	s.sizeOf = make([][]int, len(s.Params))
	retvals := 0
	seenOptional := false

	for i, p := range s.Params {
		path := []string{s.Name, p.Name}
		if p.Retval {
			retvals++
			if p.Direction != Out {
				return errors.New(errors.PhaseRegister, errors.KindRegistration).
					Path(path...).Detail("retval must be an out parameter").Build()
			}
		}
		if p.Optional {
			seenOptional = true
		} else if seenOptional && p.Direction.Reads() && !s.isSizeTarget(i) {
			return errors.New(errors.PhaseRegister, errors.KindRegistration).
				Path(path...).Detail("required parameter follows an optional one").Build()
		}
		if p.Type.Tag == TagArray && p.Type.Elem == nil {
			return errors.New(errors.PhaseRegister, errors.KindRegistration).
				Path(path...).Detail("array without element type").Build()
		}
		if p.Type.Tag == TagArray && p.Type.Elem.Tag == TagArray {
			return errors.New(errors.PhaseRegister, errors.KindRegistration).
				Path(path...).Detail("nested arrays are not representable").Build()
		}

		if !p.Type.Tag.IsSized() {
			continue
		}
		if p.SizeIs < 0 || p.SizeIs >= len(s.Params) || p.SizeIs == i {
			return errors.New(errors.PhaseRegister, errors.KindRegistration).
				Path(path...).Detail("%s needs a paired size parameter", p.Type).Build()
		}
		size := s.Params[p.SizeIs]
		if !size.Type.Tag.IsInteger() {
			return errors.New(errors.PhaseRegister, errors.KindRegistration).
				Path(path...).Detail("size parameter %q must be an integer, not %s", size.Name, size.Type).Build()
		}
		if p.Direction.Reads() && !size.Direction.Reads() {
			return errors.New(errors.PhaseRegister, errors.KindRegistration).
				Path(path...).Detail("size parameter %q must be readable for a %s array", size.Name, p.Direction).Build()
		}
		s.sizeOf[p.SizeIs] = append(s.sizeOf[p.SizeIs], i)
	}

	if retvals > 1 {
		return errors.New(errors.PhaseRegister, errors.KindRegistration).
			Path(s.Name).Detail("more than one retval").Build()
	}
	return nil
}

// isSizeTarget reports whether some param declared before or after i uses
// it as its size; hidden size params may follow optional ones.
func (s *Signature) isSizeTarget(i int) bool {
	for _, p := range s.Params {
		if p.Type.Tag.IsSized() && p.SizeIs == i {
			return true
		}
	}
	return false
}

// SizedBy returns the indexes of the params whose count is params[i].
func (s *Signature) SizedBy(i int) []int {
	if i < 0 || i >= len(s.sizeOf) {
		return nil
	}
	return s.sizeOf[i]
}

// IsSize reports whether params[i] is a size parameter of some array or
// length-prefixed string.
func (s *Signature) IsSize(i int) bool {
	return len(s.SizedBy(i)) > 0
}

// Retval returns the index of the retval parameter, or -1.
func (s *Signature) Retval() int {
	for i, p := range s.Params {
		if p.Retval {
			return i
		}
	}
	return -1
}

// ArgRange returns the number of caller arguments the signature accepts:
// one per non-retval parameter. Trailing optional parameters, size
// parameters and pure out parameters may be omitted.
func (s *Signature) ArgRange() (minArgs, maxArgs int) {
	for i, p := range s.Params {
		if p.Retval {
			continue
		}
		maxArgs++
		if !p.Optional && !s.IsSize(i) && p.Direction.Reads() {
			minArgs = maxArgs
		}
	}
	return minArgs, maxArgs
}

// Attribute is a property exposed through getter and setter accessors.
type Attribute struct {
	getter   *Signature
	setter   *Signature
	Name     string
	Type     Type
	ReadOnly bool
}

// Getter returns the accessor signature reading the attribute.
func (a *Attribute) Getter() *Signature {
	return a.getter
}

// Setter returns the accessor signature writing the attribute, or nil when
// the attribute is read-only.
func (a *Attribute) Setter() *Signature {
	return a.setter
}

func (a *Attribute) build() error {
	if a.Type.Tag.IsSized() {
		return errors.New(errors.PhaseRegister, errors.KindRegistration).
			Path(a.Name).Detail("attributes cannot be %s", a.Type).Build()
	}
	var err error
	a.getter, err = NewSignature(a.Name, Param{Name: "value", Type: a.Type, Direction: Out, Retval: true, SizeIs: -1})
	if err != nil {
		return err
	}
	if !a.ReadOnly {
		a.setter, err = NewSignature(a.Name, Param{Name: "value", Type: a.Type, Direction: In, SizeIs: -1})
	}
	return err
}

// Constant is a named value served without a native call. Value holds the
// native representation for Type.
type Constant struct {
	Value any
	Name  string
	Type  Type
}

// Interface groups the methods, attributes and constants of one contract.
type Interface struct {
	methods    map[string]*Signature
	attributes map[string]*Attribute
	constants  map[string]*Constant
	Name       string
	Parent     string
	IID        uuid.UUID
}

// NewInterface creates an empty interface; Parent may be empty.
func NewInterface(name string, iid uuid.UUID, parent string) *Interface {
	return &Interface{
		Name:       name,
		IID:        iid,
		Parent:     parent,
		methods:    make(map[string]*Signature),
		attributes: make(map[string]*Attribute),
		constants:  make(map[string]*Constant),
	}
}

// AddMethod declares a method. Names must be unique within the interface.
func (i *Interface) AddMethod(sig *Signature) error {
	if err := i.checkName(sig.Name); err != nil {
		return err
	}
	i.methods[sig.Name] = sig
	return nil
}

// AddAttribute declares an attribute and synthesizes its accessors.
func (i *Interface) AddAttribute(name string, typ Type, readOnly bool) error {
	if err := i.checkName(name); err != nil {
		return err
	}
	a := &Attribute{Name: name, Type: typ, ReadOnly: readOnly}
	if err := a.build(); err != nil {
		return err
	}
	i.attributes[name] = a
	return nil
}

// AddConstant declares a constant. Only scalar tags are allowed.
func (i *Interface) AddConstant(name string, typ Type, native any) error {
	if err := i.checkName(name); err != nil {
		return err
	}
	if !typ.Tag.IsScalar() {
		return errors.Registration(i.Name, "constant "+name+" must be scalar, not "+typ.String(), nil)
	}
	i.constants[name] = &Constant{Name: name, Type: typ, Value: native}
	return nil
}

func (i *Interface) checkName(name string) error {
	if name == "" {
		return errors.Registration(i.Name, "empty member name", nil)
	}
	_, m := i.methods[name]
	_, a := i.attributes[name]
	_, c := i.constants[name]
	if m || a || c {
		return errors.Registration(i.Name, "duplicate member "+name, nil)
	}
	return nil
}

// Method returns a method declared directly on this interface.
func (i *Interface) Method(name string) (*Signature, bool) {
	s, ok := i.methods[name]
	return s, ok
}

// Attribute returns an attribute declared directly on this interface.
func (i *Interface) Attribute(name string) (*Attribute, bool) {
	a, ok := i.attributes[name]
	return a, ok
}

// Constant returns a constant declared directly on this interface.
func (i *Interface) Constant(name string) (*Constant, bool) {
	c, ok := i.constants[name]
	return c, ok
}

// MethodNames returns the names of methods declared directly on i.
func (i *Interface) MethodNames() []string {
	names := make([]string, 0, len(i.methods))
	for n := range i.methods {
		names = append(names, n)
	}
	return names
}

// AttributeNames returns the names of attributes declared directly on i.
func (i *Interface) AttributeNames() []string {
	names := make([]string, 0, len(i.attributes))
	for n := range i.attributes {
		names = append(names, n)
	}
	return names
}

// ConstantNames returns the names of constants declared directly on i.
func (i *Interface) ConstantNames() []string {
	names := make([]string, 0, len(i.constants))
	for n := range i.constants {
		names = append(names, n)
	}
	return names
}
