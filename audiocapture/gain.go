package audiocapture

import "math"

// maxGain bounds the AGC boost so near-silent frames aren't amplified
// into noise.
const maxGain = 4.0

// calculateRMS calculates the root mean square of audio samples.
func calculateRMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// normalizeGain scales samples in place toward the target RMS, clamping
// each sample to [-1, 1] to avoid clipping. Returns the resulting RMS.
func normalizeGain(samples []float32, rms, target float64) float64 {
	gain := target / rms
	if gain > maxGain {
		gain = maxGain
	}

	for i, s := range samples {
		v := float64(s) * gain
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		samples[i] = float32(v)
	}
	return calculateRMS(samples)
}
