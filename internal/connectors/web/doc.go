// Package web implements the HTTP side of the site assistant: loading the
// seed page, discovering same-origin links on it, fetching those pages and
// reading contact signals from the page markup.
//
// # Components
//
//   - Fetcher: GETs a page through a resty client that shares one cookie
//     jar per session, decodes the body to UTF-8 and caps its size
//   - LinkDiscoverer: collects same-origin hyperlinks from a page
//   - SignalExtractor: reads the mentor phone attribute and visible text
//   - RateLimiter: optional politeness throttle shared by all fetches
//
// # Contact Convention
//
// Site authors publish the mentor's phone number on the page body:
//
//	<body data-mentor-phone="+1 (555) 123-4567">
//
// The attribute is accepted when it carries at least seven consecutive
// digits. Pages without it fall back to the first phone-like run of digits
// in the visible text. The attribute name can be changed with the
// contact.attribute setting.
//
// # Link Rules
//
// Discovery resolves every a[href] against the page URL and keeps a link
// only when it shares scheme, host and port with the page. mailto:, tel:
// and other non-HTTP schemes are dropped, as are fragment links back to the
// page's own path and the page URL itself. Malformed hrefs are skipped.
// Results are deduplicated before they are truncated to the limit.
//
// # Limitations
//
//   - Bodies larger than 2 MiB are truncated
//   - JavaScript is not executed, so client-rendered content is invisible
//   - robots.txt is not consulted; set crawl.requests_per_second to throttle
package web
