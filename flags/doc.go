// Package flags converts UTAU expression flags (g, t, bre, bri) into
// synthesis parameters: formant shift, tension, breathiness, and
// brightness, with cross-flag interactions and voice-type-specific
// adjustments applied before safety limiting. Custom flags beyond these
// four are not accepted.
package flags
