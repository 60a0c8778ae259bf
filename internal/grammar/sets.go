package grammar

import (
	"rcc/internal/syntax"
	"rcc/internal/token"
)

var (
	storageClassFirst = syntax.TokenSetOf(
		token.KwTypedef, token.KwExtern, token.KwStatic, token.KwThreadLocal,
		token.KwAuto, token.KwRegister,
	)
	typeQualifierFirst = syntax.TokenSetOf(token.KwConst, token.KwRestrict, token.KwVolatile, token.KwAtomic)
	functionSpecFirst  = syntax.TokenSetOf(token.KwInline, token.KwNoreturn)
	typeSpecFirst      = syntax.TokenSetOf(
		token.KwVoid, token.KwChar, token.KwShort, token.KwInt, token.KwLong,
		token.KwFloat, token.KwDouble, token.KwSigned, token.KwUnsigned,
		token.KwBool, token.KwComplex, token.KwImaginary,
		token.KwStruct, token.KwUnion, token.KwEnum,
	)
	// declSpecFirst holds the keywords that start a declaration. Typedef
	// names are recognized separately.
	declSpecFirst = storageClassFirst.
			Union(typeQualifierFirst).
			Union(functionSpecFirst).
			Union(typeSpecFirst).
			With(token.KwAlignas)

	externalDeclFirst = declSpecFirst.With(token.KwStaticAssert, token.Ident)

	literalFirst = syntax.TokenSetOf(token.IntConst, token.FloatConst, token.CharConst, token.StringLit)
	primaryFirst = literalFirst.With(token.Ident, token.LParen, token.KwGeneric, token.KwFuncName)
	// operandStart follows the ')' of a cast whose type is an unknown name.
	operandStart = literalFirst.With(token.Ident, token.KwSizeof)
	exprFirst    = primaryFirst.With(
		token.Amp, token.Star, token.Plus, token.Minus, token.Tilde, token.Bang,
		token.PlusPlus, token.MinusMinus, token.KwSizeof, token.KwAlignof,
	)
	stmtFirst = exprFirst.With(
		token.LBrace, token.Semicolon, token.KwIf, token.KwSwitch, token.KwWhile,
		token.KwDo, token.KwFor, token.KwGoto, token.KwContinue, token.KwBreak,
		token.KwReturn, token.KwCase, token.KwDefault,
	)
	blockItemFirst = stmtFirst.Union(declSpecFirst).With(token.KwStaticAssert)

	declaratorFirst = syntax.TokenSetOf(token.Ident, token.LParen)
	// declaratorStart opens a declarator or an abstract declarator.
	declaratorStart = syntax.TokenSetOf(token.Star, token.Ident, token.LParen, token.LBracket)
	initializerFirst = exprFirst.With(token.LBrace)
	designatorFirst  = syntax.TokenSetOf(token.LBracket, token.Dot)
	enumeratorFirst  = syntax.TokenSetOf(token.Ident)
	memberFirst      = declSpecFirst.With(token.KwStaticAssert, token.Semicolon)

	// recovery sets: tokens that some enclosing rule knows how to handle
	stmtKeywords = syntax.TokenSetOf(
		token.KwIf, token.KwElse, token.KwSwitch, token.KwWhile, token.KwDo,
		token.KwFor, token.KwGoto, token.KwContinue, token.KwBreak, token.KwReturn,
		token.KwCase, token.KwDefault,
	)
	exprRecovery = stmtKeywords.Union(declSpecFirst).With(
		token.Semicolon, token.Comma, token.Colon, token.RParen, token.RBracket,
		token.LBrace, token.RBrace,
	)
	stmtRecovery       = declSpecFirst.With(token.RBrace, token.Semicolon, token.KwElse, token.KwStaticAssert)
	declaratorRecovery = declSpecFirst.With(
		token.Semicolon, token.Comma, token.Assign, token.LBrace, token.RBrace,
		token.RParen, token.RBracket, token.Colon,
	)
	parenRecovery  = syntax.TokenSetOf(token.Semicolon, token.LBrace, token.RBrace)
	memberRecovery = syntax.TokenSetOf(token.RBrace)
	listRecovery   = syntax.TokenSetOf(token.RBrace, token.Semicolon, token.Comma)
)
