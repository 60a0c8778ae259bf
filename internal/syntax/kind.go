package syntax

import (
	"strconv"

	"rcc/internal/token"
)

// Kind is the merged syntax kind space. Token kinds occupy [0, token.NumKinds),
// tree kinds follow immediately after, so one TokenSet can hold both.
type Kind uint16

// TreeKind names a non-terminal construct.
type TreeKind uint8

const (
	// ErrorTree wraps input consumed during recovery.
	ErrorTree TreeKind = iota
	TranslationUnit
	FunctionDef
	Declaration
	StaticAssert
	DeclSpecifiers
	StorageClass
	TypeSpecifier
	TypeQualifier
	FunctionSpecifier
	AlignmentSpecifier
	StructSpecifier
	StructDeclList
	StructDecl
	StructDeclarator
	EnumSpecifier
	EnumeratorList
	Enumerator
	InitDeclaratorList
	InitDeclarator
	Declarator
	Pointer
	DirectDeclarator
	ArraySuffix
	ParamList
	ParamDecl
	AbstractDeclarator
	Initializer
	InitializerList
	Designation
	TypeName

	CompoundStmt
	ExprStmt
	EmptyStmt
	LabeledStmt
	CaseStmt
	DefaultStmt
	IfStmt
	SwitchStmt
	WhileStmt
	DoStmt
	ForStmt
	GotoStmt
	ContinueStmt
	BreakStmt
	ReturnStmt

	Assignment
	CommaExpr
	ConditionalExpr
	BinaryExpr
	CastExpr
	UnaryExpr
	SizeofExpr
	AlignofExpr
	CallExpr
	ArgList
	IndexExpr
	MemberExpr
	PostfixExpr
	CompoundLiteral
	GenericSelection
	GenericAssoc
	NameExpr
	LiteralExpr
	ParenExpr

	// NumTreeKinds is the number of tree kinds. It is not a kind itself.
	NumTreeKinds
)

// NumKinds is the size of the merged kind universe.
const NumKinds = Kind(token.NumKinds) + Kind(NumTreeKinds)

var treeKindNames = [NumTreeKinds]string{
	ErrorTree:          "ErrorTree",
	TranslationUnit:    "TranslationUnit",
	FunctionDef:        "FunctionDef",
	Declaration:        "Declaration",
	StaticAssert:       "StaticAssert",
	DeclSpecifiers:     "DeclSpecifiers",
	StorageClass:       "StorageClass",
	TypeSpecifier:      "TypeSpecifier",
	TypeQualifier:      "TypeQualifier",
	FunctionSpecifier:  "FunctionSpecifier",
	AlignmentSpecifier: "AlignmentSpecifier",
	StructSpecifier:    "StructSpecifier",
	StructDeclList:     "StructDeclList",
	StructDecl:         "StructDecl",
	StructDeclarator:   "StructDeclarator",
	EnumSpecifier:      "EnumSpecifier",
	EnumeratorList:     "EnumeratorList",
	Enumerator:         "Enumerator",
	InitDeclaratorList: "InitDeclaratorList",
	InitDeclarator:     "InitDeclarator",
	Declarator:         "Declarator",
	Pointer:            "Pointer",
	DirectDeclarator:   "DirectDeclarator",
	ArraySuffix:        "ArraySuffix",
	ParamList:          "ParamList",
	ParamDecl:          "ParamDecl",
	AbstractDeclarator: "AbstractDeclarator",
	Initializer:        "Initializer",
	InitializerList:    "InitializerList",
	Designation:        "Designation",
	TypeName:           "TypeName",
	CompoundStmt:       "CompoundStmt",
	ExprStmt:           "ExprStmt",
	EmptyStmt:          "EmptyStmt",
	LabeledStmt:        "LabeledStmt",
	CaseStmt:           "CaseStmt",
	DefaultStmt:        "DefaultStmt",
	IfStmt:             "IfStmt",
	SwitchStmt:         "SwitchStmt",
	WhileStmt:          "WhileStmt",
	DoStmt:             "DoStmt",
	ForStmt:            "ForStmt",
	GotoStmt:           "GotoStmt",
	ContinueStmt:       "ContinueStmt",
	BreakStmt:          "BreakStmt",
	ReturnStmt:         "ReturnStmt",
	Assignment:         "Assignment",
	CommaExpr:          "CommaExpr",
	ConditionalExpr:    "ConditionalExpr",
	BinaryExpr:         "BinaryExpr",
	CastExpr:           "CastExpr",
	UnaryExpr:          "UnaryExpr",
	SizeofExpr:         "SizeofExpr",
	AlignofExpr:        "AlignofExpr",
	CallExpr:           "CallExpr",
	ArgList:            "ArgList",
	IndexExpr:          "IndexExpr",
	MemberExpr:         "MemberExpr",
	PostfixExpr:        "PostfixExpr",
	CompoundLiteral:    "CompoundLiteral",
	GenericSelection:   "GenericSelection",
	GenericAssoc:       "GenericAssoc",
	NameExpr:           "NameExpr",
	LiteralExpr:        "LiteralExpr",
	ParenExpr:          "ParenExpr",
}

func (k TreeKind) String() string {
	if k < NumTreeKinds {
		return treeKindNames[k]
	}
	return "TreeKind(" + strconv.Itoa(int(k)) + ")"
}

// Kind maps the tree kind into the merged space.
func (k TreeKind) Kind() Kind {
	return Kind(token.NumKinds) + Kind(k)
}

// Tok maps a token kind into the merged space.
func Tok(k token.Kind) Kind {
	return Kind(k)
}

// IsToken reports whether k came from the token alphabet.
func (k Kind) IsToken() bool {
	return k < Kind(token.NumKinds)
}

// Token returns the token kind for k. Only valid when IsToken is true.
func (k Kind) Token() token.Kind {
	return token.Kind(k) //nolint:gosec // guarded by IsToken
}

// Tree returns the tree kind for k. Only valid when IsToken is false.
func (k Kind) Tree() TreeKind {
	return TreeKind(k - Kind(token.NumKinds)) //nolint:gosec // guarded by IsToken
}

func (k Kind) String() string {
	switch {
	case k.IsToken():
		return k.Token().String()
	case k < NumKinds:
		return k.Tree().String()
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}
