package models

// Flat views carry an entity's own columns only. Nested views add one level of
// related rows and stop there: a nested episode's guests never list their own
// appearances, which keeps every payload acyclic.

type EpisodeFlat struct {
	ID     uint   `json:"id"`
	Date   string `json:"date"`
	Number int    `json:"number"`
}

type GuestFlat struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
}

type AppearanceFlat struct {
	ID        uint `json:"id"`
	Rating    int  `json:"rating"`
	EpisodeID uint `json:"episode_id"`
	GuestID   uint `json:"guest_id"`
}

// EpisodeAppearance is an appearance as seen from its episode.
type EpisodeAppearance struct {
	AppearanceFlat
	Guest *GuestFlat `json:"guest"`
}

// GuestAppearance is an appearance as seen from its guest.
type GuestAppearance struct {
	AppearanceFlat
	Episode *EpisodeFlat `json:"episode"`
}

type EpisodeNested struct {
	EpisodeFlat
	Appearances []EpisodeAppearance `json:"appearances"`
}

type GuestNested struct {
	GuestFlat
	Appearances []GuestAppearance `json:"appearances"`
}

type AppearanceNested struct {
	AppearanceFlat
	Episode *EpisodeFlat `json:"episode"`
	Guest   *GuestFlat   `json:"guest"`
}

func (e *Episode) Flat() EpisodeFlat {
	return EpisodeFlat{ID: e.ID, Date: e.Date, Number: e.Number}
}

func (e *Episode) Nested() EpisodeNested {
	out := EpisodeNested{
		EpisodeFlat: e.Flat(),
		Appearances: make([]EpisodeAppearance, 0, len(e.Appearances)),
	}
	for i := range e.Appearances {
		a := &e.Appearances[i]
		out.Appearances = append(out.Appearances, EpisodeAppearance{
			AppearanceFlat: a.Flat(),
			Guest:          flatGuest(a.Guest),
		})
	}
	return out
}

func (g *Guest) Flat() GuestFlat {
	return GuestFlat{ID: g.ID, Name: g.Name, Occupation: g.Occupation}
}

func (g *Guest) Nested() GuestNested {
	out := GuestNested{
		GuestFlat:   g.Flat(),
		Appearances: make([]GuestAppearance, 0, len(g.Appearances)),
	}
	for i := range g.Appearances {
		a := &g.Appearances[i]
		out.Appearances = append(out.Appearances, GuestAppearance{
			AppearanceFlat: a.Flat(),
			Episode:        flatEpisode(a.Episode),
		})
	}
	return out
}

func (a *Appearance) Flat() AppearanceFlat {
	return AppearanceFlat{ID: a.ID, Rating: a.Rating, EpisodeID: a.EpisodeID, GuestID: a.GuestID}
}

func (a *Appearance) Nested() AppearanceNested {
	return AppearanceNested{
		AppearanceFlat: a.Flat(),
		Episode:        flatEpisode(a.Episode),
		Guest:          flatGuest(a.Guest),
	}
}

// FlatEpisodes renders a list endpoint payload. The result is never nil.
func FlatEpisodes(episodes []Episode) []EpisodeFlat {
	out := make([]EpisodeFlat, 0, len(episodes))
	for i := range episodes {
		out = append(out, episodes[i].Flat())
	}
	return out
}

// FlatGuests renders a list endpoint payload. The result is never nil.
func FlatGuests(guests []Guest) []GuestFlat {
	out := make([]GuestFlat, 0, len(guests))
	for i := range guests {
		out = append(out, guests[i].Flat())
	}
	return out
}

func flatEpisode(e *Episode) *EpisodeFlat {
	if e == nil {
		return nil
	}
	f := e.Flat()
	return &f
}

func flatGuest(g *Guest) *GuestFlat {
	if g == nil {
		return nil
	}
	f := g.Flat()
	return &f
}
