package token

import "strconv"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Unknown is a run of bytes the lexer could not classify.
	Unknown Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntConst is a decimal, octal or hex integer constant with optional suffix.
	IntConst
	// FloatConst is a decimal or hex floating constant.
	FloatConst
	// CharConst is a character constant such as 'a' or L'\n'.
	CharConst
	// StringLit is a string literal, including prefixed forms.
	StringLit

	KwAuto          // auto
	KwBreak         // break
	KwCase          // case
	KwChar          // char
	KwConst         // const
	KwContinue      // continue
	KwDefault       // default
	KwDo            // do
	KwDouble        // double
	KwElse          // else
	KwEnum          // enum
	KwExtern        // extern
	KwFloat         // float
	KwFor           // for
	KwGoto          // goto
	KwIf            // if
	KwInline        // inline
	KwInt           // int
	KwLong          // long
	KwRegister      // register
	KwRestrict      // restrict
	KwReturn        // return
	KwShort         // short
	KwSigned        // signed
	KwSizeof        // sizeof
	KwStatic        // static
	KwStruct        // struct
	KwSwitch        // switch
	KwTypedef       // typedef
	KwUnion         // union
	KwUnsigned      // unsigned
	KwVoid          // void
	KwVolatile      // volatile
	KwWhile         // while
	KwAlignas       // _Alignas
	KwAlignof       // _Alignof
	KwAtomic        // _Atomic
	KwBool          // _Bool
	KwComplex       // _Complex
	KwGeneric       // _Generic
	KwImaginary     // _Imaginary
	KwNoreturn      // _Noreturn
	KwStaticAssert  // _Static_assert
	KwThreadLocal   // _Thread_local
	KwFuncName      // __func__

	LBracket      // [
	RBracket      // ]
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	Dot           // .
	Arrow         // ->
	PlusPlus      // ++
	MinusMinus    // --
	Amp           // &
	Star          // *
	Plus          // +
	Minus         // -
	Tilde         // ~
	Bang          // !
	Slash         // /
	Percent       // %
	Shl           // <<
	Shr           // >>
	Lt            // <
	Gt            // >
	LtEq          // <=
	GtEq          // >=
	EqEq          // ==
	BangEq        // !=
	Caret         // ^
	Pipe          // |
	AndAnd        // &&
	OrOr          // ||
	Question      // ?
	Colon         // :
	Semicolon     // ;
	Ellipsis      // ...
	Assign        // =
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	PlusAssign    // +=
	MinusAssign   // -=
	ShlAssign     // <<=
	ShrAssign     // >>=
	AmpAssign     // &=
	CaretAssign   // ^=
	PipeAssign    // |=
	Comma         // ,
	Hash          // #
	HashHash      // ##

	// NumKinds is the number of token kinds. It is not a kind itself.
	NumKinds
)

var kindNames = [NumKinds]string{
	Unknown:    "UNKNOWN",
	EOF:        "EOF",
	Ident:      "IDENTIFIER",
	IntConst:   "INTEGER_CONSTANT",
	FloatConst: "FLOATING_CONSTANT",
	CharConst:  "CHARACTER_CONSTANT",
	StringLit:  "STRING",

	LBracket:      "LBRACKET",
	RBracket:      "RBRACKET",
	LParen:        "LPAREN",
	RParen:        "RPAREN",
	LBrace:        "LBRACE",
	RBrace:        "RBRACE",
	Dot:           "DOT",
	Arrow:         "PTR_OP",
	PlusPlus:      "INC_OP",
	MinusMinus:    "DEC_OP",
	Amp:           "AMP",
	Star:          "STAR",
	Plus:          "PLUS",
	Minus:         "MINUS",
	Tilde:         "TILDE",
	Bang:          "BANG",
	Slash:         "SLASH",
	Percent:       "PERCENT",
	Shl:           "LSHIFT",
	Shr:           "RSHIFT",
	Lt:            "LT",
	Gt:            "GT",
	LtEq:          "LE",
	GtEq:          "GE",
	EqEq:          "EQEQ",
	BangEq:        "NE",
	Caret:         "CARET",
	Pipe:          "PIPE",
	AndAnd:        "DOUBLEAMP",
	OrOr:          "DOUBLEPIPE",
	Question:      "QUESTION",
	Colon:         "COLON",
	Semicolon:     "SEMICOLON",
	Ellipsis:      "ELLIPSIS",
	Assign:        "EQ",
	StarAssign:    "STAREQ",
	SlashAssign:   "SLASHEQ",
	PercentAssign: "PERCENTEQ",
	PlusAssign:    "PLUSEQ",
	MinusAssign:   "MINUSEQ",
	ShlAssign:     "LSHIFTEQ",
	ShrAssign:     "RSHIFTEQ",
	AmpAssign:     "AMPEQ",
	CaretAssign:   "CARETEQ",
	PipeAssign:    "PIPEEQ",
	Comma:         "COMMA",
	Hash:          "HASH",
	HashHash:      "HASHHASH",
}

var kindSpelling = [NumKinds]string{
	LBracket:      "[",
	RBracket:      "]",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	Dot:           ".",
	Arrow:         "->",
	PlusPlus:      "++",
	MinusMinus:    "--",
	Amp:           "&",
	Star:          "*",
	Plus:          "+",
	Minus:         "-",
	Tilde:         "~",
	Bang:          "!",
	Slash:         "/",
	Percent:       "%",
	Shl:           "<<",
	Shr:           ">>",
	Lt:            "<",
	Gt:            ">",
	LtEq:          "<=",
	GtEq:          ">=",
	EqEq:          "==",
	BangEq:        "!=",
	Caret:         "^",
	Pipe:          "|",
	AndAnd:        "&&",
	OrOr:          "||",
	Question:      "?",
	Colon:         ":",
	Semicolon:     ";",
	Ellipsis:      "...",
	Assign:        "=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	ShlAssign:     "<<=",
	ShrAssign:     ">>=",
	AmpAssign:     "&=",
	CaretAssign:   "^=",
	PipeAssign:    "|=",
	Comma:         ",",
	Hash:          "#",
	HashHash:      "##",
}

func init() {
	// имена ключевых слов выводятся из таблицы keywords
	for text, k := range keywords {
		kindNames[k] = keywordName(text)
		kindSpelling[k] = text
	}
}

// String returns the upper-case name of the kind, e.g. "SEMICOLON" or "INT_KW".
func (k Kind) String() string {
	if k < NumKinds && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Describe renders k for user-facing messages: "';'", "'while'" or
// "identifier".
func (k Kind) Describe() string {
	switch k {
	case Unknown:
		return "unknown token"
	case EOF:
		return "end of file"
	case Ident:
		return "identifier"
	case IntConst:
		return "integer constant"
	case FloatConst:
		return "floating constant"
	case CharConst:
		return "character constant"
	case StringLit:
		return "string literal"
	}
	if k < NumKinds && kindSpelling[k] != "" {
		return "'" + kindSpelling[k] + "'"
	}
	return k.String()
}

// Spelling returns the fixed source text of a keyword or punctuator.
func (k Kind) Spelling() string {
	if k < NumKinds {
		return kindSpelling[k]
	}
	return ""
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwAuto && k <= KwFuncName
}

// IsLiteral reports whether k is a constant or string literal.
func (k Kind) IsLiteral() bool {
	return k >= IntConst && k <= StringLit
}

// IsPunct reports whether k is a punctuator.
func (k Kind) IsPunct() bool {
	return k >= LBracket && k <= HashHash
}

// IsAssignOp reports whether k is '=' or a compound assignment.
func (k Kind) IsAssignOp() bool {
	return k >= Assign && k <= PipeAssign
}
