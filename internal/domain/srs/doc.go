// Package srs implements the spaced-repetition scheduling engine: a
// stability/difficulty memory model with a forgetting-curve retrievability
// estimate, and a scheduler that bridges the model to the learning item
// state machine (learning steps, graduation, lapses) to produce concrete
// due dates. All computation is pure; persistence belongs to the caller.
package srs
