// Command cratekeeper indexes a music collection and vets incoming folders
// for duplicates. Mutating commands take a file lock on the database
// directory; read-only commands run without it.
package main
