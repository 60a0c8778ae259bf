package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Препроцессор
	PPInfo                Code = 1000
	PPUnterminatedIf      Code = 1001
	PPUnexpectedDirective Code = 1002
	PPInvalidDirective    Code = 1003
	PPIncludeNotFound     Code = 1004
	PPIncludeDepth        Code = 1005
	PPExecDisabled        Code = 1006
	PPExecFailed          Code = 1007
	PPUserError           Code = 1008
	PPInvalidEncoding     Code = 1009
	PPMacroRedefined      Code = 1010
	PPMacroArgs           Code = 1011
	PPInvalidExpression   Code = 1012

	// Лексические
	LexInfo                     Code = 2000
	LexUnknownChar              Code = 2001
	LexUnterminatedString       Code = 2002
	LexUnterminatedChar         Code = 2003
	LexUnterminatedBlockComment Code = 2004
	LexBadNumber                Code = 2005
	LexTokenTooLong             Code = 2006

	// Парсерные
	SynInfo              Code = 3000
	SynError             Code = 3001
	SynUnexpectedToken   Code = 3002
	SynExpectSemicolon   Code = 3003
	SynExpectExpression  Code = 3004
	SynExpectDeclarator  Code = 3005
	SynExpectStatement   Code = 3006
	SynExpectType        Code = 3007
	SynExpectIdentifier  Code = 3008
	SynUnclosedDelimiter Code = 3009
	SynExpectDeclaration Code = 3010
	// SynInternal reports an engine invariant violation caught by the driver.
	SynInternal Code = 3999

	// Ввод-вывод
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOReadDirError  Code = 4002
	IOCacheError    Code = 4003

	// Проект
	ProjInfo            Code = 5000
	ProjManifestInvalid Code = 5001
	ProjBadTraceLevel   Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	PPInfo:                "Preprocessor information",
	PPUnterminatedIf:      "Unterminated conditional directive",
	PPUnexpectedDirective: "Unexpected directive",
	PPInvalidDirective:    "Invalid directive",
	PPIncludeNotFound:     "Included file not found",
	PPIncludeDepth:        "Include nesting too deep",
	PPExecDisabled:        "Command execution is disabled",
	PPExecFailed:          "Command execution failed",
	PPUserError:           "#error directive",
	PPInvalidEncoding:     "Invalid source encoding",
	PPMacroRedefined:      "Macro redefined",
	PPMacroArgs:           "Wrong macro arguments",
	PPInvalidExpression:   "Invalid #if expression",

	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedChar:         "Unterminated character constant",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number",
	LexTokenTooLong:             "Token too long",

	SynInfo:              "Syntax information",
	SynError:             "Syntax error",
	SynUnexpectedToken:   "Unexpected token",
	SynExpectSemicolon:   "Expected semicolon",
	SynExpectExpression:  "Expected expression",
	SynExpectDeclarator:  "Expected declarator",
	SynExpectStatement:   "Expected statement",
	SynExpectType:        "Expected type",
	SynExpectIdentifier:  "Expected identifier",
	SynUnclosedDelimiter: "Unclosed delimiter",
	SynExpectDeclaration: "Expected declaration",
	SynInternal:          "Internal parser failure",

	IOInfo:          "I/O information",
	IOLoadFileError: "I/O load file error",
	IOReadDirError:  "I/O read directory error",
	IOCacheError:    "Parse cache error",

	ProjInfo:            "Project information",
	ProjManifestInvalid: "Invalid rcc.toml",
	ProjBadTraceLevel:   "Unknown trace level",
}

// ID returns the stable short identifier, e.g. "SYN3003".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PP%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
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
