package config

import "sort"

var Presets = map[string]func() *Config{
	"flat": func() *Config {
		return DefaultConfig()
	},
	"solidbody": func() *Config {
		c := DefaultConfig()
		c.Curve.Kind = CurveSolidBody
		return c
	},
	"bp2010": func() *Config {
		c := DefaultConfig()
		c.Curve.Kind = CurveBP
		c.Curve.Vcirc = DefaultBPVcirc
		return c
	},
	"mwpotential": func() *Config {
		c := DefaultConfig()
		c.Curve.Kind = CurveMWPotential
		return c
	},
	"dr3": func() *Config {
		c := DefaultConfig()
		c.Curve.Kind = CurveBP
		c.Curve.Vcirc = DefaultBPVcirc
		c.Grid.XMin, c.Grid.XMax = -15, -4
		c.Grid.YMin, c.Grid.YMax = -8, 8
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
