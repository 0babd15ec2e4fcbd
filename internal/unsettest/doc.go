// Package unsettest tests package simtime in a process where the resolution
// of simulation time is never set.
package unsettest
