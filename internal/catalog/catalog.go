// Package catalog holds the static read-only reference tables: creator
// profiles and sounds. These are seed data shipped with the app, not user
// state — they never change at runtime and are looked up by key with a
// default-entry fallback, so an unknown key renders a placeholder instead
// of failing.
package catalog

// Creator is one entry in the static creator directory.
type Creator struct {
	Handle    string `json:"handle"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Followers string `json:"followers"` // Display string, e.g. "1.2M"
}

// Sound is one entry in the static sound directory. Attached holds the
// content known to use the sound, with a popularity score per item.
type Sound struct {
	Key      string         `json:"key"`
	Name     string         `json:"name"`
	Artist   string         `json:"artist"`
	Attached []AttachedItem `json:"attached"`
}

// AttachedItem is one piece of content attached to a sound.
type AttachedItem struct {
	Title      string `json:"title"`
	Creator    string `json:"creator"`
	Popularity int    `json:"popularity"` // Higher = more used
}

var creators = map[string]Creator{
	"dancequeen": {
		Handle:    "@dancequeen",
		Name:      "Dance Queen",
		Bio:       "Daily choreo drops. DC me if you copy the moves!",
		Followers: "2.4M",
	},
	"chefmax": {
		Handle:    "@chefmax",
		Name:      "Chef Max",
		Bio:       "60-second recipes that actually work.",
		Followers: "890K",
	},
	"funnyguy": {
		Handle:    "@funnyguy",
		Name:      "Funny Guy",
		Bio:       "Sketches, pranks, regret.",
		Followers: "1.1M",
	},
}

// defaultCreator is returned for unknown handles.
var defaultCreator = Creator{
	Handle:    "@creator",
	Name:      "Creator",
	Bio:       "This creator hasn't written a bio yet.",
	Followers: "0",
}

var sounds = map[string]Sound{
	"original-mix": {
		Key:    "original-mix",
		Name:   "Original Mix",
		Artist: "clipfeed",
		Attached: []AttachedItem{
			{Title: "Morning routine", Creator: "@dancequeen", Popularity: 820},
			{Title: "Try this at home", Creator: "@funnyguy", Popularity: 640},
			{Title: "Late night edit", Creator: "@chefmax", Popularity: 640},
		},
	},
	"summer-beat": {
		Key:    "summer-beat",
		Name:   "Summer Beat",
		Artist: "DJ Nova",
		Attached: []AttachedItem{
			{Title: "Beach day", Creator: "@dancequeen", Popularity: 1200},
			{Title: "Rooftop party", Creator: "@funnyguy", Popularity: 340},
		},
	},
	"lofi-chill": {
		Key:    "lofi-chill",
		Name:   "Lofi Chill",
		Artist: "beatsmith",
		Attached: []AttachedItem{
			{Title: "Study with me", Creator: "@chefmax", Popularity: 560},
		},
	},
}

// defaultSound is returned for unknown keys (and for posts with no sound).
var defaultSound = Sound{
	Key:    "original-sound",
	Name:   "Original Sound",
	Artist: "unknown",
}

// CreatorByHandle looks up a creator by handle (with or without the "@"
// prefix). Unknown handles return the default entry, never an error.
func CreatorByHandle(handle string) Creator {
	if len(handle) > 0 && handle[0] == '@' {
		handle = handle[1:]
	}
	if c, ok := creators[handle]; ok {
		return c
	}
	return defaultCreator
}

// SoundByKey looks up a sound by its catalog key, falling back to the
// default entry for unknown or empty keys.
func SoundByKey(key string) Sound {
	if s, ok := sounds[key]; ok {
		return s
	}
	return defaultSound
}
