// Package reverb provides reusable non-I/O reverb processors.
//
// Included processors:
//   - Reverb: Lightweight Schroeder/Freeverb-style algorithmic reverb.
//   - FDNReverb: Modulated feedback delay network reverb.
package reverb
