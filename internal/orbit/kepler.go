package orbit

import "math"

const twoPi = 2 * math.Pi

// EccentricFromTrue converts a true anomaly to the eccentric anomaly in [0, 2π).
// It is the half-angle form E = 2·atan(√((1−e)/(1+e))·tan(ν/2)), written with
// atan2 so ν = π stays finite.
func EccentricFromTrue(nu, ecc float64) float64 {
	half := normalizeAngle(nu) / 2
	return normalizeAngle(2 * math.Atan2(math.Sqrt(1-ecc)*math.Sin(half), math.Sqrt(1+ecc)*math.Cos(half)))
}

// MeanFromEccentric is Kepler's equation M = E − e·sin E.
func MeanFromEccentric(eccAnomaly, ecc float64) float64 {
	return normalizeAngle(eccAnomaly - ecc*math.Sin(eccAnomaly))
}

// TrueFromEccentric converts an eccentric anomaly back to the true anomaly.
func TrueFromEccentric(eccAnomaly, ecc float64) float64 {
	if ecc == 0 {
		return normalizeAngle(eccAnomaly)
	}
	num := math.Sqrt(1-ecc*ecc) * math.Sin(eccAnomaly)
	den := math.Cos(eccAnomaly) - ecc
	return normalizeAngle(math.Atan2(num, den))
}

// EccentricFromMean solves Kepler's equation with Newton-Raphson.
func EccentricFromMean(meanAnomaly, ecc float64) float64 {
	if ecc == 0 {
		return normalizeAngle(meanAnomaly)
	}
	m := normalizeAngle(meanAnomaly)
	e := initialGuess(m, ecc)
	for i := 0; i < 50; i++ {
		f := e - ecc*math.Sin(e) - m
		fp := 1 - ecc*math.Cos(e)
		delta := f / fp
		e -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return normalizeAngle(e)
}

func TrueAnomalyFromMean(meanAnomaly, ecc float64) float64 {
	return TrueFromEccentric(EccentricFromMean(meanAnomaly, ecc), ecc)
}

func normalizeAngle(angle float64) float64 {
	wrapped := math.Mod(angle, twoPi)
	if wrapped < 0 {
		wrapped += twoPi
	}
	return wrapped
}

func initialGuess(m, ecc float64) float64 {
	if ecc < 0.8 {
		return m
	}
	if m < math.Pi {
		return m + ecc/2
	}
	return m - ecc/2
}
