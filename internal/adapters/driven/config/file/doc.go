// Package file stores settings in a TOML file under the user's config
// directory.
package file
