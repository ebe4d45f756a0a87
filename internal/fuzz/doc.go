// Package fuzztests houses Go fuzz harnesses that exercise the ferry
// front end (source -> lexer -> parser). Its goal is to smoke test
// robustness and guard against panics, hangs or broken spans on
// arbitrary schema inputs.
//
// Назначение: загружать произвольные байты в FileSet, прогонять их
// через лексер и парсер и проверять span-инварианты готового дерева.
//
// Не делает: резолв деклараций, генерацию кода, запись файлов.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/diag, internal/testkit.

package fuzztests
