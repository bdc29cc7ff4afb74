// Package derive holds the pure post-scoring functions shared by both
// prediction paths: risk level, remaining life, maintenance window and the
// overall condition label. Both the ML and rule paths must call these — the
// sharing is what guarantees their outputs are comparable for equal scores.
package derive
