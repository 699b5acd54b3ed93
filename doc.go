// Package semi models a Semantic Interface (SEM-I): the declarative
// inventory of variable types, variable properties, argument roles, and
// predicate synopses used by a grammar's semantic representations.
//
// A SemI is assembled from a Document, the structured snapshot of all
// declarations, and owns four immutable tables:
//
//   - VariableTable: variable types and their (inherited) property lists
//   - RoleTable: argument roles and their required value types
//   - PredicateTable: predicates with ordered synopsis alternatives
//   - a unified type hierarchy covering variables, property types, and
//     predicates, rooted at *top*
//
// All type symbols are case-insensitive and stored in canonical lower
// case; role and property names are canonicalized to upper case. After
// Build succeeds nothing is ever mutated, so a SemI may be queried from
// any number of goroutines without locking.
//
// # Construction
//
//	res, err := reader.Load("erg.smi")
//	// ...
//	s, err := semi.Build(res.Document)
//
// # Synopsis matching
//
// FindSynopsis checks an observed argument list against a predicate's
// declared synopses and returns the first alternative whose roles and
// types are reconcilable under the hierarchy's compatibility relation:
//
//	syn, err := s.FindSynopsis("_able_a_1", []semi.Arg{
//	    {Role: "ARG0", Value: "e"},
//	    {Role: "ARG1", Value: "p"},
//	})
//
// When no alternative matches, the returned *NoSynopsisError lists every
// rejected alternative with the reason it failed.
package semi
