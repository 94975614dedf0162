package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/xpbridge/errors"
)

// Pattern: [export] name: func(params) -> result;
var witFuncPattern = regexp.MustCompile(`(?:export\s+)?([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?`)

// ParseWIT builds an interface from the function declarations in WIT text.
// Each list<T> parameter gets a hidden u32 size parameter named
// "<param>-len" placed right before it. A single result becomes the retval;
// a tuple result becomes out parameters result0..resultN.
func ParseWIT(name string, iid uuid.UUID, witText string) (*Interface, error) {
	iface := NewInterface(name, iid, "")

	matches := witFuncPattern.FindAllStringSubmatch(witText, -1)
	for _, match := range matches {
		fname := match[1]
		paramsStr := strings.TrimSpace(match[2])
		resultStr := ""
		if len(match) > 3 {
			resultStr = strings.TrimSpace(match[3])
		}

		var params []Param
		if paramsStr != "" {
			for _, p := range splitParams(paramsStr) {
				pname, typStr, ok := strings.Cut(p, ":")
				if !ok {
					return nil, errors.InvalidInput(errors.PhaseParse, "param without type in "+fname)
				}
				pname, typStr = strings.TrimSpace(pname), strings.TrimSpace(typStr)

				if elemStr, ok := listElem(typStr); ok {
					elem, err := witType(elemStr)
					if err != nil {
						return nil, err
					}
					params = append(params,
						Param{Name: pname + "-len", Type: Scalar(TagULong), Direction: In, SizeIs: -1},
						Param{Name: pname, Type: ArrayOf(elem), Direction: In, SizeIs: len(params)},
					)
					continue
				}
				t, err := witType(typStr)
				if err != nil {
					return nil, err
				}
				params = append(params, Param{Name: pname, Type: t, Direction: In, SizeIs: -1})
			}
		}

		if resultStr != "" && resultStr != "()" {
			if strings.HasPrefix(resultStr, "(") && strings.HasSuffix(resultStr, ")") {
				inner := strings.TrimPrefix(strings.TrimSuffix(resultStr, ")"), "(")
				for i, part := range splitParams(inner) {
					t, err := witType(part)
					if err != nil {
						return nil, err
					}
					params = append(params, Param{Name: "result" + strconv.Itoa(i), Type: t, Direction: Out, SizeIs: -1})
				}
			} else {
				t, err := witType(resultStr)
				if err != nil {
					return nil, err
				}
				params = append(params, Param{Name: "result", Type: t, Direction: Out, Retval: true, SizeIs: -1})
			}
		}

		sig, err := NewSignature(fname, params...)
		if err != nil {
			return nil, err
		}
		if err := iface.AddMethod(sig); err != nil {
			return nil, err
		}
	}

	if len(iface.methods) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no functions found in WIT text")
	}
	return iface, nil
}

func listElem(s string) (string, bool) {
	inner, ok := strings.CutPrefix(s, "list<")
	if !ok {
		return "", false
	}
	return strings.CutSuffix(inner, ">")
}

// witType maps a primitive WIT type onto a tag. WIT strings are UTF-8.
func witType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	t, err := wit.ParseType(s)
	if err != nil {
		return Type{}, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parse type "+s)
	}
	switch t.(type) {
	case wit.Bool:
		return Scalar(TagBoolean), nil
	case wit.U8:
		return Scalar(TagOctet), nil
	case wit.S16:
		return Scalar(TagShort), nil
	case wit.U16:
		return Scalar(TagUShort), nil
	case wit.S32:
		return Scalar(TagLong), nil
	case wit.U32:
		return Scalar(TagULong), nil
	case wit.S64:
		return Scalar(TagLongLong), nil
	case wit.U64:
		return Scalar(TagULongLong), nil
	case wit.F32:
		return Scalar(TagFloat), nil
	case wit.F64:
		return Scalar(TagDouble), nil
	case wit.Char:
		return Scalar(TagWChar), nil
	case wit.String:
		return Scalar(TagUTF8String), nil
	}
	return Type{}, errors.Unsupported(errors.PhaseParse, "WIT type "+s+" has no native counterpart")
}

// splitParams splits parameter list, handling nested parens and angle brackets.
func splitParams(s string) []string {
	var result []string
	var current strings.Builder
	depth := 0

	for _, ch := range s {
		switch ch {
		case '(', '<':
			depth++
			current.WriteRune(ch)
		case ')', '>':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				if str := strings.TrimSpace(current.String()); str != "" {
					result = append(result, str)
				}
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}

	if str := strings.TrimSpace(current.String()); str != "" {
		result = append(result, str)
	}

	return result
}
