package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadNumber                Code = 1003
	LexNumberOverflow           Code = 1004

	// Синтаксические
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectExpression Code = 2003
	SynExpectIdentifier Code = 2004
	SynExpectType       Code = 2005
	SynUnclosedParen    Code = 2006
	SynUnclosedBrace    Code = 2007
	SynUnclosedBracket  Code = 2008
	SynExpectAssign     Code = 2009
	SynVoidVariable     Code = 2010

	// Семантические: первые двенадцать соответствуют классам ошибок ядра.
	SemaInfo             Code = 3000
	SemaDuplicatedDef    Code = 3001
	SemaSymbolNotFound   Code = 3002
	SemaFailedToEval     Code = 3003
	SemaInvalidArrayLen  Code = 3004
	SemaInvalidInit      Code = 3005
	SemaArrayAssign      Code = 3006
	SemaNotInLoop        Code = 3007
	SemaRetValInVoidFunc Code = 3008
	SemaDerefInt         Code = 3009
	SemaUseVoidValue     Code = 3010
	SemaArgMismatch      Code = 3011
	SemaNonIntCalc       Code = 3012
	SemaMissingReturn    Code = 3013
	SemaAssignToConst    Code = 3014
	SemaMissingRetVal    Code = 3015
	SemaNoMain           Code = 3016

	// Ошибки I/O
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002

	// Внутренние ошибки генерации IR
	IRInfo          Code = 5000
	IRInvalidOutput Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed integer literal",
	LexNumberOverflow:           "Integer literal out of range",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectExpression:         "Expected expression",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected 'int' or 'void'",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynExpectAssign:             "Expected '=' in constant definition",
	SynVoidVariable:             "Variables cannot have type void",
	SemaInfo:                    "Semantic information",
	SemaDuplicatedDef:           "Duplicated definition",
	SemaSymbolNotFound:          "Symbol not found",
	SemaFailedToEval:            "Failed to evaluate constant expression",
	SemaInvalidArrayLen:         "Invalid array length",
	SemaInvalidInit:             "Invalid initializer",
	SemaArrayAssign:             "Assignment to an array",
	SemaNotInLoop:               "break/continue outside of a loop",
	SemaRetValInVoidFunc:        "Returning a value from a void function",
	SemaDerefInt:                "Indexing a non-array value",
	SemaUseVoidValue:            "Using the value of a void call",
	SemaArgMismatch:             "Arguments do not match the signature",
	SemaNonIntCalc:              "Operand is not an integer",
	SemaMissingReturn:           "Missing return in non-void function",
	SemaAssignToConst:           "Assignment to a constant",
	SemaMissingRetVal:           "Missing return value",
	SemaNoMain:                  "No main function",
	IOLoadFileError:             "Failed to load file",
	IOWriteError:                "Failed to write output",
	IRInfo:                      "IR information",
	IRInvalidOutput:             "Generated IR failed validation",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IR%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
