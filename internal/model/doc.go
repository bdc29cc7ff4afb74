// Package model loads the regression artifact bundle produced by the
// external training pipeline and evaluates it: an ordered feature-name
// list, a fitted standard scaler, the categorical equipment-type
// vocabulary, and a random-forest regressor exported as per-tree node
// arrays. The bundle loads as a whole or not at all — a partial bundle
// must never yield a partially-ML predictor.
package model
