package schema

// Tag is the declared type of a parameter, attribute or array element.
type Tag uint8

const (
	TagBoolean Tag = iota
	TagOctet
	TagShort
	TagUShort
	TagLong
	TagULong
	TagLongLong
	TagULongLong
	TagFloat
	TagDouble
	TagChar
	TagWChar
	TagString
	TagWString
	TagSizedString
	TagSizedWString
	TagAString
	TagACString
	TagUTF8String
	TagDOMString
	TagIID
	TagInterface
	TagObject
	TagVariant
	TagArray
	tagCount
)

var tagNames = [...]string{
	TagBoolean:      "boolean",
	TagOctet:        "octet",
	TagShort:        "short",
	TagUShort:       "unsigned-short",
	TagLong:         "long",
	TagULong:        "unsigned-long",
	TagLongLong:     "long-long",
	TagULongLong:    "unsigned-long-long",
	TagFloat:        "float",
	TagDouble:       "double",
	TagChar:         "char",
	TagWChar:        "wide-char",
	TagString:       "narrow-string",
	TagWString:      "wide-string",
	TagSizedString:  "sized-string",
	TagSizedWString: "sized-wide-string",
	TagAString:      "abstract-string",
	TagACString:     "abstract-cstring",
	TagUTF8String:   "utf8-string",
	TagDOMString:    "dom-string",
	TagIID:          "interface-id",
	TagInterface:    "interface-pointer",
	TagObject:       "object-pointer",
	TagVariant:      "variant",
	TagArray:        "array",
}

// tagAliases maps IDL spellings to tags.
var tagAliases = map[string]Tag{
	"bool":               TagBoolean,
	"PRBool":             TagBoolean,
	"unsigned short":     TagUShort,
	"unsigned long":      TagULong,
	"long long":          TagLongLong,
	"unsigned long long": TagULongLong,
	"wchar":              TagWChar,
	"string":             TagString,
	"wstring":            TagWString,
	"AString":            TagAString,
	"ACString":           TagACString,
	"AUTF8String":        TagUTF8String,
	"DOMString":          TagDOMString,
	"nsIIDRef":           TagIID,
	"nsIID":              TagIID,
	"nsISupports":        TagObject,
	"nsIVariant":         TagVariant,
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// ParseTag resolves a tag by its canonical name or an IDL alias.
func ParseTag(name string) (Tag, bool) {
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true
		}
	}
	t, ok := tagAliases[name]
	return t, ok
}

// IsInteger reports whether t is one of the integral numeric tags.
func (t Tag) IsInteger() bool {
	return t >= TagOctet && t <= TagULongLong
}

// IsNumeric reports whether t is integral or floating point.
func (t Tag) IsNumeric() bool {
	return t >= TagOctet && t <= TagDouble
}

// IsScalar reports whether t has a fixed-width native representation.
func (t Tag) IsScalar() bool {
	return t <= TagWChar
}

// IsString reports whether t belongs to any of the string families.
func (t Tag) IsString() bool {
	return t >= TagString && t <= TagDOMString
}

// IsSized reports whether t must be paired with a size parameter.
func (t Tag) IsSized() bool {
	switch t {
	case TagSizedString, TagSizedWString, TagArray:
		return true
	}
	return false
}

// Nullable reports whether a null caller value is preserved as null in
// the native representation. Fixed narrow and wide strings are never null;
// a null caller value becomes an empty string for them.
func (t Tag) Nullable() bool {
	switch t {
	case TagAString, TagACString, TagUTF8String, TagDOMString,
		TagInterface, TagObject, TagVariant:
		return true
	}
	return false
}

// Bits returns the native storage width for scalar tags, 0 otherwise.
func (t Tag) Bits() int {
	switch t {
	case TagBoolean, TagOctet, TagChar:
		return 8
	case TagShort, TagUShort:
		return 16
	case TagLong, TagULong, TagFloat, TagWChar:
		return 32
	case TagLongLong, TagULongLong, TagDouble:
		return 64
	}
	return 0
}

// Signed reports whether an integer tag is signed.
func (t Tag) Signed() bool {
	switch t {
	case TagShort, TagLong, TagLongLong:
		return true
	}
	return false
}
