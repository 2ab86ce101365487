package domain

// RawDocument represents opaque bytes fetched from the site.
// It is the fetcher's output before normalisation.
type RawDocument struct {
	// URI is the URL the bytes were fetched from.
	URI string

	// MIMEType is the content type reported by the server.
	MIMEType string

	// Content is the raw body, decoded to UTF-8.
	Content []byte
}

// Page is the page a session is opened on.
// Its markup is held in memory and is never re-fetched by the crawler.
type Page struct {
	// URL is the absolute URL of the page; it defines the origin.
	URL string

	// HTML is the page's full markup.
	HTML string
}

// PageSignals are the page-level hints used to find a contact number.
type PageSignals struct {
	// PhoneAttribute is the value of the contact attribute on <body>.
	PhoneAttribute string

	// VisibleText is the page's text with non-visible elements removed.
	VisibleText string
}
