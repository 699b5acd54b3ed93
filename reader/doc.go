// Package reader loads SEM-I declarations from their on-disk text
// format into a semi.Document.
//
// The format is line-oriented. A section header names the table the
// following entries belong to, `;` starts a comment, and `include:`
// splices another file relative to the including file:
//
//	; comment
//	variables:
//	  u.
//	  i < u.
//	  e < i : PERF bool, TENSE tense.
//	properties:
//	  bool.
//	  + < bool.
//	roles:
//	  ARG0 : i.
//	predicates:
//	  existential_q.
//	  _the_q < existential_q.
//	  _able_a_1 : ARG0 e, ARG1 i, ARG2 h, [ ARG3 i ].
//	include: core.smi
//
// The reader only tokenizes; semantic validation (parent resolution,
// cycle detection, type references) happens in semi.Build.
package reader
