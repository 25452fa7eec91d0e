package transport

// OSC addresses understood by the AbletonOSC remote script.
// See https://github.com/ideoforms/AbletonOSC
const (
	AddressCreateClip  = "/live/clip_slot/create_clip"
	AddressFireClip    = "/live/clip_slot/fire"
	AddressAddNotes    = "/live/clip/add/notes"
	AddressRemoveNotes = "/live/clip/remove/notes"
)
