// Package bindkit provides pattern-matching and binding-combinator
// machinery for processing messages.
//
// The structural matcher lives in package 'match', the combinators in
// package 'bind', declarative rules in package 'rules', and some
// command-line tools in 'cmd'.
package bindkit
