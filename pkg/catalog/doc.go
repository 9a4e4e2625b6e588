// Package catalog loads the tweak catalog: the embedded default, or a user YAML/JSON file.
// A Watcher keeps a file-backed catalog current while a server is running.
package catalog
