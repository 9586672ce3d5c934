// Package availability resolves the override percentage (0-100, percent
// sold) for each event through a cascade of increasingly expensive
// strategies: card status text, vendor page text, the vendor availability
// API, network-payload sniffing in a headless browser, and DOM seat
// counting. Every strategy failure is swallowed and falls through; the
// cascade bottoms out at a configurable default.
package availability
