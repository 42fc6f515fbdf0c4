package gravity

import "math"

// Constants bundles the physical constants the kernel needs. Zero values are
// not usable; start from DefaultConstants and override.
type Constants struct {
	G                    float64 // gravitational constant, m^3 kg^-1 s^-2
	Density              float64 // material density for the radius law, kg/m^3
	HeatCapacity         float64 // specific heat, J kg^-1 K^-1
	StefanBoltzmann      float64 // W m^-2 K^-4
	MinTemperature       float64 // cosmic floor, K
	ImpactHeatMultiplier float64 // fraction of collision energy loss turned into heat
	MaxImpactTemperature float64 // post-impact clamp, K
	Theta                float64 // Barnes-Hut opening angle
}

func DefaultConstants() Constants {
	return Constants{
		G:                    6.6743e-11,
		Density:              3000,
		HeatCapacity:         1000,
		StefanBoltzmann:      5.670374419e-8,
		MinTemperature:       3,
		ImpactHeatMultiplier: 1,
		MaxImpactTemperature: 1e6,
		Theta:                0.5,
	}
}

// RadiusForMass derives a body radius from its mass assuming a homogeneous
// sphere of the configured density.
func (c Constants) RadiusForMass(m float64) float64 {
	return math.Cbrt(3 * m / (4 * math.Pi * c.Density))
}
