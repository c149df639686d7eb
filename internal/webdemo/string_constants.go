package webdemo

const (
	reverbModelFDN = "fdn"

	eqNodeHP   = "hp"
	eqNodeLow  = "low"
	eqNodeMid  = "mid"
	eqNodeHigh = "high"
	eqNodeLP   = "lp"

	eqKindHighpass  = "highpass"
	eqKindLowpass   = "lowpass"
	eqKindBandpass  = "bandpass"
	eqKindNotch     = "notch"
	eqKindAllpass   = "allpass"
	eqKindPeak      = "peak"
	eqKindHighShelf = "highshelf"
	eqKindLowShelf  = "lowshelf"

	eqFamilyRBJ         = "rbj"
	eqFamilyButterworth = "butterworth"
	eqFamilyBessel      = "bessel"
	eqFamilyChebyshev1  = "chebyshev1"
	eqFamilyChebyshev2  = "chebyshev2"
	eqFamilyElliptic    = "elliptic"
	eqFamilyMoog        = "moog"

	eqShapeModeQ         = "q"
	eqShapeModeBandwidth = "bandwidth"
	eqShapeModeRipple    = "ripple"
)
