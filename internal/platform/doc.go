// Package platform contains OS integration and external tooling glue:
// filesystem helpers, revealing folders in the file manager, and checking or
// installing the downloader and its Python prerequisites.
package platform
