// Package auth provides the optional API key middleware guarding the
// server's write endpoints. Reads stay public; writes are checked against a
// key resolved from the environment.
package auth
