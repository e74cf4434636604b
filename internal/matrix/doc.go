// Package matrix expands the configuration model into the enumerable set of
// legal build combinations for parallel CI execution. Generation is a pure
// function of the model: no I/O, stable ordering, and an empty model simply
// yields an empty matrix.
package matrix
