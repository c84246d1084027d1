// Package broadcast delivers the latest pose snapshot to all registered
// subscribers at a fixed tick rate, isolating per-subscriber failures so
// one broken connection never stalls the rest.
package broadcast
