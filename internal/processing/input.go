package processing

import (
	"bytes"

	"github.com/RMahshie/faultscope/internal/charset"
)

// invalidShapeMessage is reported verbatim when no accepted layout is present
const invalidShapeMessage = "Invalid file combination: either a CFF file, or both a CFG and a DAT file must be provided."

// Input is the raw material of one parse. A nil slice means the file was not
// supplied; an empty Encoding means no label was given.
type Input struct {
	Combined []byte
	Config   []byte
	Data     []byte
	Encoding string
}

// ShapeKind tags the accepted input layouts
type ShapeKind int

const (
	ShapeInvalid ShapeKind = iota
	ShapeCombined
	ShapeSplit
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCombined:
		return "combined"
	case ShapeSplit:
		return "split"
	default:
		return "invalid"
	}
}

// Kind classifies in without decoding anything
func (in Input) Kind() ShapeKind {
	switch {
	case in.Combined != nil:
		return ShapeCombined
	case in.Config != nil && in.Data != nil:
		return ShapeSplit
	default:
		return ShapeInvalid
	}
}

// Size is the total number of bytes supplied
func (in Input) Size() int {
	return len(in.Combined) + len(in.Config) + len(in.Data)
}

// Shape is the normalized input, built once and not re-checked downstream
type Shape struct {
	Kind     ShapeKind
	Combined []byte
	Config   []byte // UTF-8 text for ShapeSplit
	Data     []byte
	Charset  charset.Charset
}

// Normalize classifies in into exactly one accepted layout. A combined file
// takes priority and is never re-decoded; a split pair has its configuration
// decoded through the encoding label.
func Normalize(in Input) (Shape, error) {
	switch in.Kind() {
	case ShapeCombined:
		return Shape{Kind: ShapeCombined, Combined: in.Combined, Charset: charset.UTF8()}, nil
	case ShapeSplit:
		cs := charset.Lookup(in.Encoding)
		cfg, err := cs.Decode(in.Config)
		if err != nil {
			return Shape{}, newError(KindInvalidInputShape, "Failed to decode configuration file as "+cs.Name+": "+err.Error(), err)
		}
		return Shape{Kind: ShapeSplit, Config: cfg, Data: in.Data, Charset: cs}, nil
	default:
		return Shape{}, newError(KindInvalidInputShape, invalidShapeMessage, nil)
	}
}

// parser builds the collaborator for this shape
func (s Shape) parser(factory ParserFactory) Parser {
	if s.Kind == ShapeCombined {
		return factory.Combined(bytes.NewReader(s.Combined))
	}
	return factory.Split(bytes.NewReader(s.Config), bytes.NewReader(s.Data))
}
