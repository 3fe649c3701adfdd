// Package assets embeds the default knowledge base shipped with the bot.
package assets

import "embed"

//go:embed data/*.json
var data embed.FS

const (
	HerbsFile     = "data/herbs.json"
	LocationsFile = "data/locations.json"
	QuizFile      = "data/quiz.json"
)

// Read returns the embedded file with the given name.
func Read(name string) ([]byte, error) {
	return data.ReadFile(name)
}
