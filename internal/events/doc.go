// Package events carries practice activity out of the turn engine.
//
// Services record ActivityEvents while a turn runs; the turn controller hands
// them to an EventEmitter once the turn's transaction has committed, so a
// rolled-back turn never produces events. LogHandler is the default sink.
package events
