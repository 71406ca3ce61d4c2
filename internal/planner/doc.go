// Package planner turns coaching responses into todo documents and back.
//
// Everything here is a pure function over strings. The package never
// performs I/O, never returns errors and never panics on malformed
// markdown: the worst case is an empty result.
//
// # Pipeline
//
//	assistant text -> SplitSections -> ExtractPlan -> MergePlans -> document
//	document -> ParseTodos -> []TodoItem
//	document -> CompleteTodo / EditTodo -> document
//
// # Line classification
//
// ParseTodos, CompleteTodo and EditTodo share one line classifier and one
// walker, so an id computed while parsing is recomputed byte for byte while
// mutating. Lines are blank, habit headings ("### name", optionally quoted
// or numbered), structural lines (other headings and horizontal rules),
// action lines (bullet, decimal, CJK numeral or step markers, optionally
// quoted) or plain text. Plain text directly below an action continues it.
package planner
