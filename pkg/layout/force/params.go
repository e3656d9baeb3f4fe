package force

// Params are the tunable constants of the force-directed simulation.
// The zero value of any field means "use the default"; see Normalized.
// Fields carry toml tags so hosts can load overrides from a config file.
type Params struct {
	// Scale multiplies the ideal edge length k, which is derived from the
	// drawing area and node count as Scale * sqrt(area/n).
	Scale float64 `json:"scale" toml:"scale"`

	// CoolOff is the per-step temperature decay factor, in (0, 1).
	CoolOff float64 `json:"cooloff" toml:"cooloff"`

	// TemperatureFloor is the value cooling converges to. A positive floor
	// keeps the simulation gently responsive to topology changes instead of
	// freezing solid.
	TemperatureFloor float64 `json:"temperature_floor" toml:"temperature_floor"`

	// StartTemperature is the temperature a fresh simulation starts from.
	// Zero derives it from the drawing area (a tenth of its larger side).
	StartTemperature float64 `json:"start_temperature" toml:"start_temperature"`
}

// DefaultParams returns the baseline tuning. Values were settled empirically
// on graphs in the tens-to-hundreds of nodes range.
func DefaultParams() Params {
	return Params{
		Scale:            1.0,
		CoolOff:          0.975,
		TemperatureFloor: 0.5,
		StartTemperature: 0,
	}
}

// Normalized returns a copy with zero fields replaced by defaults, so a
// partially filled config file overrides only what it names.
func (p Params) Normalized() Params {
	d := DefaultParams()
	if p.Scale <= 0 {
		p.Scale = d.Scale
	}
	if p.CoolOff <= 0 || p.CoolOff >= 1 {
		p.CoolOff = d.CoolOff
	}
	if p.TemperatureFloor <= 0 {
		p.TemperatureFloor = d.TemperatureFloor
	}
	if p.StartTemperature < 0 {
		p.StartTemperature = 0
	}
	return p
}
