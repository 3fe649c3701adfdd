package entities

// ResponseKind tags a structured response for the presentation layer.
type ResponseKind string

const (
	ResponseHerb          ResponseKind = "herb"
	ResponseLocation      ResponseKind = "location"
	ResponseLocationError ResponseKind = "location_error"
	ResponseRemedyList    ResponseKind = "remedy_list"
	ResponseText          ResponseKind = "text"
	ResponseQuizStart     ResponseKind = "quiz_start"
)

// Response is what the core hands back for a single user message.
// Exactly one payload field is set, according to Kind.
type Response struct {
	Kind     ResponseKind
	Herb     *Herb
	Location *LocationResult
	Remedies []Remedy
	Message  string
}

// TextResponse wraps a plain message.
func TextResponse(msg string) Response {
	return Response{Kind: ResponseText, Message: msg}
}
