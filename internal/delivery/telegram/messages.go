// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

// Error messages.
const (
	msgInternalError  = "Something went wrong. Please try again later."
	msgUnknownCommand = "Unknown command. Available commands:\n\n/quiz - take the Ayurveda quiz\n/herbs - browse herbs\n/location - herbs and stores near you\n/help - what I can do"
)

// Plain replies.
const (
	msgShareLocation  = "Tap the button below to share your location. I will use it to find Ayurvedic stores and herbs around you."
	msgLocationSaved  = "Thanks! Your location is saved."
	msgHistoryEmpty   = "Your chat history is empty."
	msgExportCaption  = "Your AyurBot chat history"
	msgNoResults      = "You have not finished a quiz yet."
	msgClearConfirm   = "Delete your chat history and quiz results? This cannot be undone."
	msgClearDone      = "Your chat history and quiz results were deleted."
	msgClearCancelled = "Nothing was deleted."
	msgNoAnswer       = "I'm not sure how to help with that. Try asking about a symptom or an herb."
)

// Callback toasts.
const (
	noticeQuizExpired   = "This question is no longer active."
	noticeAnswerPending = "Checking your answer..."
)

// locationQuery is submitted on the user's behalf after they share a location.
const locationQuery = "Find Ayurvedic stores near me"

const historyTimeLayout = "Jan 2 15:04"

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func welcomeMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("🌿 Namaste! I'm AyurBot"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Your guide to Ayurveda. Ask me about a symptom, an herb, or Ayurvedic stores near you."))
	sb.WriteString("\n\n")
	sb.WriteString(md("Try:"))
	sb.WriteString("\n")
	sb.WriteString(md("• What is good for a headache?"))
	sb.WriteString("\n")
	sb.WriteString(md("• Tell me about ashwagandha"))
	sb.WriteString("\n")
	sb.WriteString(md("• Find Ayurvedic stores near me"))
	sb.WriteString("\n")
	sb.WriteString(md("• Start quiz"))

	return sb.String()
}

func helpMessage() string {
	lines := []string{
		bold("What I can do"),
		"",
		md("Just write to me. I recognise herb names, location questions and symptoms."),
		"",
		md("/quiz - take the Ayurveda quiz"),
		md("/quit - leave the quiz"),
		md("/herbs - browse the herb list"),
		md("/location - share your location for local advice"),
		md("/history - show recent messages"),
		md("/export - download the chat history"),
		md("/results - your quiz scores"),
		md("/clear - delete your data"),
	}
	return strings.Join(lines, "\n")
}

// renderResponse formats a structured response as MarkdownV2.
func renderResponse(r entities.Response) string {
	switch r.Kind {
	case entities.ResponseHerb:
		if r.Herb != nil {
			return formatHerb(r.Herb)
		}
	case entities.ResponseLocation:
		if r.Location != nil {
			return formatLocation(r.Location)
		}
	case entities.ResponseLocationError:
		return md("📍 " + r.Message)
	case entities.ResponseRemedyList:
		return formatRemedies(r.Remedies)
	}
	if strings.TrimSpace(r.Message) == "" {
		return md(msgNoAnswer)
	}
	return md(r.Message)
}

func formatHerb(h *entities.Herb) string {
	var sb strings.Builder

	sb.WriteString(bold("🌿 " + h.Name))
	if h.ScientificName != "" {
		sb.WriteString("\n")
		sb.WriteString(italic(h.ScientificName))
	}
	sb.WriteString("\n\n")
	sb.WriteString(md(h.Description))

	writeList(&sb, "Properties", h.Properties)
	writeList(&sb, "Uses", h.Uses)
	writeField(&sb, "Where found", h.WhereFound)
	writeField(&sb, "Availability", h.Availability)
	if len(h.Forms) > 0 {
		writeField(&sb, "Forms", strings.Join(h.Forms, ", "))
	}
	writeField(&sb, "Dosage", h.Dosage)
	writeField(&sb, "⚠️ Precautions", h.Precautions)

	return sb.String()
}

func formatLocation(l *entities.LocationResult) string {
	var sb strings.Builder

	place := l.Location.City
	if l.Location.Country != "" {
		place += ", " + l.Location.Country
	}
	sb.WriteString(bold("📍 " + place))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Climate: %s", l.Climate)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Weather: %s, %d°C, %d%% humidity",
		l.Weather.Condition, l.Weather.Temperature, l.Weather.Humidity)))

	sb.WriteString("\n\n")
	sb.WriteString(bold("🏪 Ayurvedic stores"))
	if len(l.Stores) == 0 {
		sb.WriteString("\n")
		sb.WriteString(md("No stores listed for this area yet."))
	}
	for _, s := range l.Stores {
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("• %s (⭐ %.1f)", s.Name, s.Rating)))
		sb.WriteString("\n  ")
		sb.WriteString(md(s.Address))
		if s.Phone != "" {
			sb.WriteString("\n  ")
			sb.WriteString(md(s.Phone))
		}
	}

	writeList(&sb, "🌱 Local herbs", l.LocalHerbs)

	rec := l.Recommendations
	writeList(&sb, fmt.Sprintf("☀️ For %s weather", l.WeatherType), rec.Suggestions)
	writeList(&sb, "🚫 Avoid", rec.Avoid)
	writeField(&sb, "💡 Tip", rec.Tips)

	return sb.String()
}

func formatRemedies(remedies []entities.Remedy) string {
	if len(remedies) == 0 {
		return md("I couldn't find remedies for that. Try describing your symptoms differently.")
	}

	blocks := make([]string, 0, len(remedies))
	for _, r := range remedies {
		var sb strings.Builder

		title := "🩺 Remedy"
		if r.Symptom != "" {
			title = "🩺 " + r.Symptom
		}
		sb.WriteString(bold(title))
		if r.Description != "" {
			sb.WriteString("\n")
			sb.WriteString(md(r.Description))
		}
		writeList(&sb, "Remedies", r.Remedies)
		writeField(&sb, "Usage", r.Usage)
		writeField(&sb, "⚠️ Precautions", r.Precautions)

		blocks = append(blocks, sb.String())
	}

	return strings.Join(blocks, "\n\n")
}

// formatHerbPage formats one page of the herb list (MarkdownV2 safe).
func formatHerbPage(herbs []entities.HerbSummary, page int) string {
	if len(herbs) == 0 {
		return md("No more herbs to show.")
	}

	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("🌿 Herbs, page %d", page+1)))
	for _, h := range herbs {
		sb.WriteString("\n\n")
		sb.WriteString(bold(fmt.Sprintf("%d. %s", h.ID, h.Name)))
		if h.Properties != "" {
			sb.WriteString("\n")
			sb.WriteString(italic(h.Properties))
		}
		if h.Usage != "" {
			sb.WriteString("\n")
			sb.WriteString(md(h.Usage))
		}
	}
	return sb.String()
}

func formatHistory(msgs []*entities.TranscriptMessage, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString(bold("🕘 Recent messages"))

	for _, m := range msgs {
		who := "You"
		if m.Sender == entities.SenderBot {
			who = "AyurBot"
		}
		sb.WriteString("\n\n")
		sb.WriteString(md(m.CreatedAt.In(loc).Format(historyTimeLayout)))
		sb.WriteString(" ")
		sb.WriteString(bold(who + ":"))
		sb.WriteString(" ")
		sb.WriteString(md(m.Text))
	}
	return sb.String()
}

func formatResults(results []*entities.QuizResult, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString(bold("🏆 Your quiz results"))

	for _, r := range results {
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("%s  %d/%d (%d%%)",
			r.CompletedAt.In(loc).Format(historyTimeLayout), r.Score, r.Total, r.Percentage())))
	}
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString("\n\n")
	sb.WriteString(bold(label + ":"))
	sb.WriteString(" ")
	sb.WriteString(md(value))
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n\n")
	sb.WriteString(bold(label + ":"))
	for _, it := range items {
		sb.WriteString("\n")
		sb.WriteString(md("• " + it))
	}
}
