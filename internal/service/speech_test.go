package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

func TestSpeechText(t *testing.T) {
	herb := &entities.Herb{
		Name:        "Ginger (Adrak)",
		Description: "A warming spice",
		WhereFound:  "Southeast Asia",
		Forms:       []string{"Fresh root", "Dried powder", "Capsules", "Tea"},
	}

	tests := []struct {
		name string
		resp entities.Response
		want string
	}{
		{
			name: "herb",
			resp: entities.Response{Kind: entities.ResponseHerb, Herb: herb},
			want: "Ginger (Adrak): A warming spice. It can be found in Southeast Asia. Available as Fresh root, Dried powder, Capsules.",
		},
		{
			name: "remedies",
			resp: entities.Response{Kind: entities.ResponseRemedyList, Remedies: []entities.Remedy{
				{Remedies: []string{"Ginger", "Honey"}, Description: "Soothes the throat"},
				{Remedies: []string{"Tulsi"}, Description: "Clears the chest"},
			}},
			want: "Ginger, Honey: Soothes the throat. Tulsi: Clears the chest",
		},
		{
			name: "location",
			resp: entities.Response{Kind: entities.ResponseLocation, Location: &entities.LocationResult{}},
			want: "I found some Ayurvedic stores and local herb information for your area.",
		},
		{
			name: "location error",
			resp: entities.Response{Kind: entities.ResponseLocationError, Message: LocationErrorMessage},
			want: LocationErrorMessage,
		},
		{
			name: "text",
			resp: entities.TextResponse("hi"),
			want: "hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpeechText(tt.resp))
		})
	}
}
