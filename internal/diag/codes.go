package diag

import (
	"fmt"
	"slices"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Naming
	NamInfo              Code = 1000
	NamStaticConstMember Code = 1001
	NamStaticMember      Code = 1002
	NamConstMember       Code = 1003
	NamMember            Code = 1004
	NamConst             Code = 1005
	NamGlobalBool        Code = 1006
	NamBool              Code = 1007
	NamGeneral           Code = 1008
	NamClass             Code = 1009
	NamNamespace         Code = 1010
	NamEnum              Code = 1011
	NamEnumValue         Code = 1012

	// Formatting
	FmtInfo        Code = 2000
	FmtLineLength  Code = 2001
	FmtIndentWidth Code = 2002
	FmtMixedIndent Code = 2003

	// I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	NamInfo:              "Naming information",
	NamStaticConstMember: "Static const member naming",
	NamStaticMember:      "Static member naming",
	NamConstMember:       "Const member naming",
	NamMember:            "Member naming",
	NamConst:             "Constant naming",
	NamGlobalBool:        "Global bool naming",
	NamBool:              "Bool naming",
	NamGeneral:           "General naming",
	NamClass:             "Class naming",
	NamNamespace:         "Namespace naming",
	NamEnum:              "Enum naming",
	NamEnumValue:         "Enum value naming",
	FmtInfo:              "Formatting information",
	FmtLineLength:        "Line too long",
	FmtIndentWidth:       "Indentation width",
	FmtMixedIndent:       "Mixed tabs and spaces in indentation",
	IOLoadFileError:      "Failed to load file",
}

// Codes returns every known code except UnknownCode in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c != UnknownCode {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("NAM%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("FMT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
