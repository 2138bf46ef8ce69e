package swagger

import "embed"

// swaggerDocs provides embedded access to the maintained swagger spec.
//
//go:embed docs/*
var swaggerDocs embed.FS
