// Package emitter drives the monitor's periodic check-and-ship cycle.
package emitter
