// Package gamedata holds the card, unit and scenario catalogs and the
// loaders for embedded and on-disk content.
package gamedata

import "embed"

// dataFS embeds the default catalog shipped with the binary.
//
//go:embed *.json
var dataFS embed.FS
