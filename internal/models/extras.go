package models

// Entity is the common shape of characters, people and related anime
// embedded in Jikan sub-resource payloads
type Entity struct {
	ID     int    `json:"mal_id"`
	URL    string `json:"url"`
	Images Images `json:"images"`
	Name   string `json:"name"`
	Title  string `json:"title"`
}

// DisplayName returns whichever of Name or Title is set
func (e Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Title
}

// VoiceActor is a person voicing a character in a given language
type VoiceActor struct {
	Person   Entity `json:"person"`
	Language string `json:"language"`
}

// CharacterRole is one entry of /anime/{id}/characters
type CharacterRole struct {
	Character   Entity       `json:"character"`
	Role        string       `json:"role"`
	Favorites   int          `json:"favorites"`
	VoiceActors []VoiceActor `json:"voice_actors"`
}

// StaffMember is one entry of /anime/{id}/staff
type StaffMember struct {
	Person    Entity   `json:"person"`
	Positions []string `json:"positions"`
}

// Recommendation is one entry of /anime/{id}/recommendations
type Recommendation struct {
	Entry Entity `json:"entry"`
	URL   string `json:"url"`
	Votes int    `json:"votes"`
}

// Themes lists the opening and ending songs of an anime
type Themes struct {
	Openings []string `json:"openings"`
	Endings  []string `json:"endings"`
}

// EmptyThemes is the default returned when themes cannot be fetched
func EmptyThemes() Themes {
	return Themes{Openings: []string{}, Endings: []string{}}
}
