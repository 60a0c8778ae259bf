// Package fuzztests houses Go fuzz harnesses that exercise the front end
// (source -> preprocessor -> lexer -> parser) on arbitrary bytes.
//
// Назначение: проверить, что ни один этап не паникует и не зависает, а
// дерево остаётся без потерь.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
