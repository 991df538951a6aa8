// Package sfile implements the nested settings store shared by the
// settings writer and the solver kernel.
//
// A store is a tree of named groups holding typed datasets (scalars,
// strings, integer lists, and N-dimensional float arrays). The in-memory
// Tree carries one serialized configuration or one solver output; File
// persists a Tree to SQLite so both sides of the kernel boundary read and
// write the same format.
package sfile
