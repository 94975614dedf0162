// Package testcomponent provides a reference component exercising every
// parameter shape the bridge supports. Its schema is embedded as YAML and
// its implementation is bound through the gateway package.
package testcomponent

import (
	"bytes"
	_ "embed"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge"
	"github.com/wippyai/xpbridge/gateway"
	"github.com/wippyai/xpbridge/schema"
)

//go:embed schema.yaml
var schemaYAML []byte

// Interface names declared by the embedded schema.
const (
	Supports  = "supports"
	Test      = "test"
	TestExtra = "test-extra"
	TestDOM   = "test-domstrings"
)

var (
	SupportsIID  = schema.MustIID("{00000000-0000-0000-c000-000000000046}")
	TestIID      = schema.MustIID("{1ecaed4f-e4d5-4ee7-abf0-7d72ae1441d7}")
	TestExtraIID = schema.MustIID("{b38d1538-fe92-42c3-831f-285242edeea4}")
	TestDOMIID   = schema.MustIID("{657ae651-a973-4818-8c06-f4b948b3d758}")
	// ClassID identifies the component implementation itself.
	ClassID = schema.MustIID("{7ee4bdc6-cb53-42c1-a9e4-616b8e012aba}")
)

// Schema returns the embedded schema document.
func Schema() []byte {
	return bytes.Clone(schemaYAML)
}

// Register loads the component's interfaces into r.
func Register(r *schema.Resolver) error {
	return r.LoadYAML(bytes.NewReader(schemaYAML))
}

// NewResolver returns a frozen resolver holding only the component's
// interfaces.
func NewResolver() (*schema.Resolver, error) {
	r := schema.NewResolver()
	if err := Register(r); err != nil {
		return nil, err
	}
	r.Freeze()
	return r, nil
}

// New creates a component bound to ifaces, or to its most derived
// interface when none are given.
func New(r *schema.Resolver, ifaces ...string) (*gateway.Target, *Component, error) {
	if len(ifaces) == 0 {
		ifaces = []string{TestDOM}
	}
	c := NewComponent()
	t, err := gateway.New(r, c, ifaces...)
	if err != nil {
		return nil, nil, err
	}
	c.self = t
	return t, c, nil
}

// Component holds the attribute state of one instance. Attributes without
// accessor methods are served straight from the exported fields.
type Component struct {
	self    xpbridge.Object
	boolean bool

	OctetValue      uint8
	ShortValue      int16
	UShortValue     uint16
	LongValue       int32
	ULongValue      uint32
	LongLongValue   int64
	ULongLongValue  uint64
	FloatValue      float32
	DoubleValue     float64
	CharValue       xpbridge.Char
	WCharValue      xpbridge.WChar
	StringValue     []byte
	WStringValue    []uint16
	AStringValue    xpbridge.AString
	ACStringValue   xpbridge.ACString
	UTF8StringValue xpbridge.AUTF8String
	IIDValue        uuid.UUID
	InterfaceValue  xpbridge.Object
	ISupportsValue  xpbridge.Object
	DOMStringValue  xpbridge.AString

	OptionalNumber1 int32
	OptionalNumber2 int32
	OptionalString1 xpbridge.AString
	OptionalString2 xpbridge.AString
}

// NewComponent returns a component holding its initial attribute values.
func NewComponent() *Component {
	return &Component{
		boolean:         true,
		OctetValue:      2,
		ShortValue:      3,
		UShortValue:     4,
		LongValue:       5,
		ULongValue:      6,
		LongLongValue:   7,
		ULongLongValue:  8,
		FloatValue:      9,
		DoubleValue:     10,
		CharValue:       'a',
		WCharValue:      'b',
		StringValue:     []byte("cee"),
		WStringValue:    encodeWide("dee"),
		AStringValue:    xpbridge.AString{Value: "astring"},
		ACStringValue:   xpbridge.ACString{Value: []byte("acstring")},
		UTF8StringValue: xpbridge.AUTF8String{Value: "utf8string"},
		IIDValue:        ClassID,
		DOMStringValue:  xpbridge.AString{Value: "dom"},
		OptionalNumber1: 1,
		OptionalNumber2: 2,
		OptionalString1: xpbridge.AString{Value: "string 1"},
		OptionalString2: xpbridge.AString{Value: "string 2"},
	}
}

func (c *Component) GetBooleanValue() bool {
	return c.boolean
}

func (c *Component) SetBooleanValue(v bool) {
	c.boolean = v
}

func (c *Component) GetDOMStringValueRO() xpbridge.AString {
	return xpbridge.AString{Value: "dom"}
}
