// Package equipment defines the closed set of supported equipment types,
// their consumer/industrial categorisation, and the immutable per-type
// profile table (operating-hour tiers, baseline lifespan, noise limits)
// that the rule engine and score derivation read from.
package equipment
