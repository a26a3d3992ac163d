// Package wgsl parses and renders line-oriented WGSL shader templates. A
// template is ordinary shader source in which lines beginning with the "//:"
// marker are directives: they splice in other shaders, declare constants
// from the environment, or select between branches of source text. Because
// the marker is a WGSL line comment, a template is still valid WGSL to every
// tool that does not understand it.
//
// # Directives
//
// A directive line is the marker followed by an operation keyword and, after
// a single space, an optional parameter that runs to the end of the line:
//
//	//:include <path>
//	//:const <name>
//	//:if <expression>
//	//:else
//	//:end
//
// Any other line is literal output. Lines are trimmed before parsing and
// empty lines are dropped, so directive indentation is insignificant and
// rendered text is flush left with one trailing newline per line.
//
// include splices the fully rendered text of another workspace shader plus a
// trailing newline. const emits a "const <name> = <value>;" declaration from
// the environment. if/else/end select a branch by the truthiness of the
// condition: nonzero integers, nonzero floats, and true are truthy.
//
// # Expressions
//
// Informal EBNF:
//
//	Expression → Operand (BinaryOp Expression)?
//	Operand    → ('-' | '!' | '~') Operand
//	           | '(' Expression ')'
//	           | Number | 'true' | 'false' | Reference
//	BinaryOp   → '+' | '-' | '*' | '/' | '&' | '|'
//	           | '&&' | '||' | '==' | '!=' | '<' | '<=' | '>' | '>='
//	Number     → ('0b' | '0o' | '0x')? digits with optional '_' separators
//	           | digits '.' digits
//	Reference  → identifier resolved against the environment
//
// Binary operators carry no precedence and associate to the right: the right
// operand of every operator greedily consumes the rest of the expression, so
// "a - b - c" means "a - (b - c)". Parenthesize to control grouping.
//
// Evaluation is strictly typed per operator. Arithmetic requires two
// integers or two floats, '&' and '|' also accept two booleans, and '&&' and
// '||' short-circuit on a boolean left operand. Comparisons across kinds are
// ordered by kind, never coerced.
//
// # Workspace
//
// A Workspace holds parsed templates keyed by path together with the
// two-tier environment their expressions read: global variables, shadowed by
// local overrides. The environment is seeded with BIT_0 through BIT_63 for
// building bit masks. Rendering a template resolves its includes recursively
// through the workspace; a shader that includes itself, directly or
// transitively, is an error.
//
// Parsed templates are never mutated, so one workspace may render shaders
// from multiple goroutines as long as the environment is not concurrently
// modified.
package wgsl
