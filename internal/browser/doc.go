// Package browser wraps headless Chrome (chromedp) behind the small
// Session capability the availability strategies consume: rendered-HTML
// retrieval and network-payload sniffing, pipelined through a fixed-size
// tab pool with a shared rate limit.
package browser
