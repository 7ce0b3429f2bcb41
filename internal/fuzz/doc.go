// Package fuzztests houses Go fuzz harnesses that exercise the front end
// (source -> lexer -> parser -> checker -> IR generation). The goal is to
// smoke test robustness: no panics, no hangs, no invalid IR on arbitrary
// inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через все фазы.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
