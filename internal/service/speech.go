package service

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

const locationSummary = "I found some Ayurvedic stores and local herb information for your area."

// SpeechText returns a short plain-text summary of a response, suitable for
// reading aloud or storing in a transcript.
func SpeechText(resp entities.Response) string {
	switch resp.Kind {
	case entities.ResponseHerb:
		if resp.Herb == nil {
			return ""
		}
		h := resp.Herb
		forms := h.Forms
		if len(forms) > 3 {
			forms = forms[:3]
		}
		return fmt.Sprintf("%s: %s. It can be found in %s. Available as %s.",
			h.Name, h.Description, h.WhereFound, strings.Join(forms, ", "))

	case entities.ResponseRemedyList:
		parts := make([]string, 0, len(resp.Remedies))
		for _, r := range resp.Remedies {
			parts = append(parts, strings.Join(r.Remedies, ", ")+": "+r.Description)
		}
		return strings.Join(parts, ". ")

	case entities.ResponseLocation:
		return locationSummary

	default:
		return resp.Message
	}
}
