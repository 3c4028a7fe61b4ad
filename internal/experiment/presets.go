package experiment

// Presets are the named room setups from the two study problems: radiator
// placement against a window wall, and heat flow between three adjacent
// apartments sharing one 12m strip.
var Presets = map[string]Scenario{
	"under-window": {
		Name:        "under-window",
		Description: "single 4x4m room, window on the left wall, radiator directly under it",
		WindowLeft:  true,
		Radiators:   []Radiator{{X: 0.2, Y: 1.5, Width: 0.2, Height: 1.0}},
		CostShare:   1,
	},
	"far-wall": {
		Name:        "far-wall",
		Description: "single 4x4m room, window on the left wall, radiator at the opposite wall",
		WindowLeft:  true,
		Radiators:   []Radiator{{X: 3.6, Y: 1.5, Width: 0.2, Height: 1.0}},
		CostShare:   1,
	},
	"cooperation": {
		Name:        "cooperation",
		Description: "three apartments, everyone heats, cost split three ways",
		Lx:          12.0,
		PowerScale:  3,
		Radiators: []Radiator{
			{X: 0.2, Y: 1.5, Width: 0.2, Height: 1.0},
			{X: 5.5, Y: 0.5, Width: 1.0, Height: 0.2},
			{X: 11.6, Y: 1.5, Width: 0.2, Height: 1.0},
		},
		SensorX0: 0, SensorX1: 12.0,
		CostShare: 1.0 / 3.0,
		RoomX0:    4.0, RoomX1: 8.0,
	},
	"parasite": {
		Name:        "parasite",
		Description: "neighbors heat, the middle apartment does not and pays nothing",
		Lx:          12.0,
		PowerScale:  2,
		Radiators: []Radiator{
			{X: 0.2, Y: 1.5, Width: 0.2, Height: 1.0},
			{X: 11.6, Y: 1.5, Width: 0.2, Height: 1.0},
		},
		SensorX0: 0, SensorX1: 4.0,
		CostShare: 0,
		RoomX0:    4.0, RoomX1: 8.0,
	},
	"isolation": {
		Name:        "isolation",
		Description: "only the middle apartment heats and pays for everything",
		Lx:          12.0,
		PowerScale:  1,
		Radiators: []Radiator{
			{X: 5.5, Y: 0.5, Width: 1.0, Height: 0.2},
		},
		SensorX0: 4.0, SensorX1: 8.0,
		CostShare: 1,
		RoomX0:    4.0, RoomX1: 8.0,
	},
}

// Get returns a preset by name.
func Get(name string) (Scenario, bool) {
	s, ok := Presets[name]
	return s, ok
}

// Names lists the preset names in a stable order.
func Names() []string {
	return []string{"under-window", "far-wall", "cooperation", "parasite", "isolation"}
}
