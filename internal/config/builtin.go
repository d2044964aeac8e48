package config

// Patterns lists the content generators a panel can use.
var Patterns = []string{"solid", "gradient", "checker", "bounce", "bars"}

func knownPattern(name string) bool {
	for _, p := range Patterns {
		if p == name {
			return true
		}
	}
	return false
}

// BuiltinPanels returns the demo panels shown when the config defines none.
func BuiltinPanels() []Panel {
	return []Panel{
		{
			Name:    "gradient",
			Title:   "Gradient",
			Pattern: "gradient",
			Color:   0xff2c3e50,
			Accent:  0xff1abc9c,
			Width:   200,
			Height:  120,
			Scale:   1,
			Style:   "titled",
		},
		{
			Name:    "bounce",
			Title:   "Bounce",
			Pattern: "bounce",
			Color:   0xff111111,
			Accent:  0xfff1c40f,
			Width:   160,
			Height:  100,
			Scale:   1,
			Style:   "titled",
		},
		{
			Name:    "bars",
			Title:   "Bars x2",
			Pattern: "bars",
			Color:   0xff202020,
			Accent:  0xffe67e22,
			Width:   96,
			Height:  64,
			Scale:   2,
			Style:   "titled",
		},
		{
			Name:    "checker",
			Title:   "Checker",
			Pattern: "checker",
			Color:   0xffdddddd,
			Accent:  0xff555555,
			Width:   120,
			Height:  120,
			Scale:   1,
			Style:   "titled",
		},
	}
}
