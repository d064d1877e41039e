package devblog

import "embed"

// EmbeddedAssets contains static assets shipped with devblog:
// site.css (typography, layout, navbar/logo) and livereload.js.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
