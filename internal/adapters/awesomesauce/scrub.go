package awesomesauce

import "regexp"

const filteredMarker = "[FILTERED]"

// sensitiveTags are the elements whose contents never leave the process unfiltered
var sensitiveTags = []string{"merchant", "secret", "number", "cv2", "exp"}

var scrubPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(sensitiveTags))
	for _, tag := range sensitiveTags {
		patterns = append(patterns, regexp.MustCompile(`(<`+tag+`>)[^<]+(</`+tag+`>)`))
	}
	return patterns
}()

// Scrubber filters credentials and card data out of wire transcripts
type Scrubber struct{}

// SupportsScrubbing always returns true
func (Scrubber) SupportsScrubbing() bool {
	return true
}

// Scrub replaces the contents of the merchant, secret, number, cv2 and exp
// elements with [FILTERED]. Everything else is left byte for byte.
func (Scrubber) Scrub(transcript string) string {
	for _, re := range scrubPatterns {
		transcript = re.ReplaceAllString(transcript, "${1}"+filteredMarker+"${2}")
	}
	return transcript
}
