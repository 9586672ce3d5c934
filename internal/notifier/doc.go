// Package notifier posts sell-out warnings for shows whose resolved
// availability crossed the announce threshold. Implementations: Twitter
// and a dry-run printer.
package notifier
