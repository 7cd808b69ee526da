package transcript

// Opaque is a scraped credential string passed through unmodified.
// The upstream format is undocumented and changes without notice, so no
// component interprets the value beyond literal substring capture.
// String() redacts it to keep short-lived credentials out of logs.
type Opaque string

func (o Opaque) String() string { return "[opaque]" }

// Raw returns the underlying value for wire use.
func (o Opaque) Raw() string { return string(o) }

// ExtractionToken is the short-lived credential pair scraped from one
// watch-page fetch. It is valid only for that page's session, never
// persisted, and discarded after the extraction that uses it.
type ExtractionToken struct {
	AccessKey Opaque // INNERTUBE_API_KEY, passed as the endpoint's key query param
	Params    Opaque // getTranscriptEndpoint params blob, sent in the POST body
}

// PageData is everything the scraper pulls out of one watch-page fetch.
type PageData struct {
	Token ExtractionToken
	Title string // og:title, best effort; empty is not a failure
}
