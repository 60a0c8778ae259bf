// Package grammar drives the syntax engine with a C11 grammar.
//
// Every rule is a method on Parser that records events and never fails:
// missing tokens become errors, stray tokens end up in ErrorTree nodes.
// Binary operators are parsed by precedence climbing and wrap their left
// operand with OpenBefore. Typedef names are tracked per scope so that
// "T x;" is a declaration and "(T)x" a cast. Names that were never declared
// are classified by the tokens that follow them.
package grammar
