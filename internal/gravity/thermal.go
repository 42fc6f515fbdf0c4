package gravity

import "math"

// Cool applies one tick of black-body radiative cooling to every body in
// live. Purely local: no cross-body exchange. Temperatures never drop below
// the configured floor.
func Cool(temps, radii, masses []float64, live []int, c Constants, dt float64) {
	for _, i := range live {
		r := radii[i]
		t := temps[i]
		power := 4 * math.Pi * r * r * c.StefanBoltzmann * t * t * t * t
		t -= power * dt / (masses[i] * c.HeatCapacity)
		temps[i] = math.Max(t, c.MinTemperature)
	}
}
