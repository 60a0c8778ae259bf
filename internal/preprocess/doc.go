// Package preprocess implements the line-oriented C preprocessor that runs
// before lexing: object and function-like macros, conditional groups,
// #include with search directories, and the opt-in #exec, #in and #endin
// directives that splice the output of shell commands into the source.
//
// Lines that start with "##" are emitted with one '#' removed and are not
// macro expanded.
package preprocess
