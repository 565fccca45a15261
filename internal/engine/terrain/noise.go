package terrain

import "github.com/chewxy/math32"

// NoiseHeight returns a fractal value-noise height function. The result is
// fully determined by the parameters, so the same seed always produces the
// same terrain. Each octave doubles the frequency and halves the amplitude.
func NoiseHeight(seed int64, amplitude, frequency float32, octaves int) HeightFunc {
	return func(x, z float32) float32 {
		var total float32
		amp := amplitude
		freq := frequency
		for i := 0; i < octaves; i++ {
			total += amp * valueNoise(seed+int64(i), x*freq, z*freq)
			amp *= 0.5
			freq *= 2
		}
		return total
	}
}

// valueNoise interpolates hashed lattice values around the sample point,
// smoothstepping the fractions so the lattice lines do not show. Results
// stay within [-1, 1] and vary continuously.
func valueNoise(seed int64, x, z float32) float32 {
	x0 := math32.Floor(x)
	z0 := math32.Floor(z)
	fx := x - x0
	fz := z - z0
	fx = fx * fx * (3 - 2*fx)
	fz = fz * fz * (3 - 2*fz)

	ix := int64(x0)
	iz := int64(z0)

	// Corner values lerped along X on both edges, then along Z.
	south := latticeValue(seed, ix, iz)*(1-fx) + latticeValue(seed, ix+1, iz)*fx
	north := latticeValue(seed, ix, iz+1)*(1-fx) + latticeValue(seed, ix+1, iz+1)*fx
	return south*(1-fz) + north*fz
}

// latticeValue hashes a lattice point to a stable value in [-1, 1].
func latticeValue(seed, x, z int64) float32 {
	h := uint64(seed) ^ uint64(x)*0x9e3779b97f4a7c15 ^ uint64(z)*0xc2b2ae3d27d4eb4f
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return float32(h&0xffffff)/float32(0x800000) - 1
}
