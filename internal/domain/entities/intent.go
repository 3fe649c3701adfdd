package entities

// IntentKind is the classified category of a user message.
type IntentKind string

const (
	IntentLocation  IntentKind = "location"
	IntentHerb      IntentKind = "herb"
	IntentQuizStart IntentKind = "quiz_start"
	IntentRemedy    IntentKind = "remedy"
)

// Intent is computed per input and never persisted.
type Intent struct {
	Kind  IntentKind
	Query string // raw user text; empty for quiz start
}
