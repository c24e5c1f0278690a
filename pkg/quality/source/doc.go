// Package source loads quality rule definitions from where they live:
// YAML files, directories of files, or in-memory sets.
//
// A Source produces definitions only; compilation and evaluation belong to
// the engine. The FileWatcher pairs with a file-backed source to reload
// the rule set when files change, debounced so editor save storms trigger
// one reload rather than many.
package source
