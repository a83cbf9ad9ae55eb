package config

// Persona is a named bundle of tone and style hints used to flavor agent
// output. It carries no state-machine logic of its own.
type Persona struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Background string `json:"background"`
	Tone       string `json:"tone"`
	Scope      string `json:"scope"`
}

const DefaultPersonaID = "evil_frog"

var personas = map[string]Persona{
	"evil_frog": {
		ID:         "evil_frog",
		Name:       "Dr. Croakenstein",
		Background: "Mad scientist frog from another dimension, plotting to conquer humanity through superior trivia",
		Tone:       "Grandiose and theatrical, punctuates sentences with 'ribbit', overuses scientific jargon",
		Scope:      "Bizarre experiments, world domination schemes; switches into strict examiner mode when a quiz starts",
	},
	"senior_sister": {
		ID:         "senior_sister",
		Name:       "Senior Zhi",
		Background: "Friendly senior student on a knowledge Q&A platform with broad general knowledge",
		Tone:       "Warm and encouraging, casual phrasing, occasional emoji",
		Scope:      "General knowledge and study guidance; a strict but kind examiner in quiz mode",
	},
}

// GetPersona returns the persona for id, falling back to the default
// when the id is unknown.
func GetPersona(id string) Persona {
	if p, ok := personas[id]; ok {
		return p
	}
	return personas[DefaultPersonaID]
}

// AllPersonas lists every available persona.
func AllPersonas() []Persona {
	list := make([]Persona, 0, len(personas))
	for _, p := range personas {
		list = append(list, p)
	}
	return list
}
