package token

import "strings"

var keywords = map[string]Kind{
	"auto":           KwAuto,
	"break":          KwBreak,
	"case":           KwCase,
	"char":           KwChar,
	"const":          KwConst,
	"continue":       KwContinue,
	"default":        KwDefault,
	"do":             KwDo,
	"double":         KwDouble,
	"else":           KwElse,
	"enum":           KwEnum,
	"extern":         KwExtern,
	"float":          KwFloat,
	"for":            KwFor,
	"goto":           KwGoto,
	"if":             KwIf,
	"inline":         KwInline,
	"int":            KwInt,
	"long":           KwLong,
	"register":       KwRegister,
	"restrict":       KwRestrict,
	"return":         KwReturn,
	"short":          KwShort,
	"signed":         KwSigned,
	"sizeof":         KwSizeof,
	"static":         KwStatic,
	"struct":         KwStruct,
	"switch":         KwSwitch,
	"typedef":        KwTypedef,
	"union":          KwUnion,
	"unsigned":       KwUnsigned,
	"void":           KwVoid,
	"volatile":       KwVolatile,
	"while":          KwWhile,
	"_Alignas":       KwAlignas,
	"_Alignof":       KwAlignof,
	"_Atomic":        KwAtomic,
	"_Bool":          KwBool,
	"_Complex":       KwComplex,
	"_Generic":       KwGeneric,
	"_Imaginary":     KwImaginary,
	"_Noreturn":      KwNoreturn,
	"_Static_assert": KwStaticAssert,
	"_Thread_local":  KwThreadLocal,
	"__func__":       KwFuncName,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

func keywordName(text string) string {
	if text == "__func__" {
		return "FUNC_NAME_KW"
	}
	return strings.ToUpper(strings.TrimLeft(text, "_")) + "_KW"
}
