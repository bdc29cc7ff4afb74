// Package recommend generates the ordered advisory list for an assessment.
// It evaluates the raw sensor values against the same canonical thresholds
// the rule engine scores with, but independently of it, so the generator
// serves the ML path — where sensor values are known but the rule engine
// never ran — verbatim.
package recommend
