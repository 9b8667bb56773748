// Package alerts implements the status alert engine. Rules match accepted
// observations by service and status (DOWN by default); matches fire an
// alert, later non-matching observations resolve it, and both transitions
// are delivered to the configured webhooks. Cooldowns suppress repeat fires
// while a service keeps reporting the same failure.
package alerts
