// Package services implements the driving port interfaces on top of the
// driven ports.
//
// A Session owns one visitor's corpus: it crawls the seed page's
// same-origin links once, builds the index, then answers queries or
// resolves a mentor contact. Sessions never share state.
package services
