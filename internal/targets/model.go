package targets

// Target is one marker of the spot trial. Hidden markers are the ones the
// player has to point at; Miss is set when a wrong guess revealed it.
type Target struct {
	ID     int  `json:"id"`
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Hidden bool `json:"hidden"`
	Miss   bool `json:"miss,omitempty"`
}
