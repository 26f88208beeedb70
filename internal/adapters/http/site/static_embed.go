package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/* templates/*
var siteFS embed.FS

// FS returns an http.FileSystem for the embedded stylesheet.
func FS() http.FileSystem {
	sub, err := fs.Sub(siteFS, "static")
	if err != nil {
		// Only reachable if the embed directive changes.
		return http.FS(siteFS)
	}
	return http.FS(sub)
}
