// Package sitefs maps a site source tree to logical paths. It crawls the
// source root and answers the title and listing queries the markup
// compiler makes while building breadcrumbs and directory indexes.
//
// Logical paths use "/" separators and are rooted at "/", whatever the
// host OS.
package sitefs
