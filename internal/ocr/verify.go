package ocr

import (
	"context"
	"errors"
	"image"
	"regexp"
	"strings"
)

var (
	// ErrInvalidClaimedID means the claimed identifier does not look like a
	// university ID at all.
	ErrInvalidClaimedID = errors.New("claimed id does not match the expected format")
	// ErrIDNotFound means no recognition pass produced a matching identifier.
	// Corrupt image buffers degrade to this error rather than failing the
	// request with a decode error.
	ErrIDNotFound = errors.New("no university id found in image")
)

var (
	// claimedPattern validates caller-supplied IDs: three letters, 4-6 digits,
	// 2 digits, slash-separated, case-insensitive.
	claimedPattern = regexp.MustCompile(`^(?i)[a-z]{3}/[0-9]{4,6}/[0-9]{2}$`)
	// extractPattern is what recognition output is searched for. Candidates
	// are lowercased before the search, so the anchor is plain "ugr/".
	extractPattern = regexp.MustCompile(`ugr/[0-9]{4,6}/[0-9]{2}`)
)

// Result is the outcome of a successful extraction.
type Result struct {
	ExtractedID string
	Matches     bool
}

// Verifier extracts a university ID from a photographed card and compares it
// with the claimed one. The search is deliberately brute force: two image
// variants (original and preprocessed), four rotations each, and four
// page-segmentation modes per variant, stopping at the first candidate that
// matches the ID pattern. Latency is traded for robustness to the rotation
// and contrast artifacts of phone photos.
type Verifier struct {
	locator Locator
}

func NewVerifier(locator Locator) *Verifier {
	return &Verifier{locator: locator}
}

// Verify runs the pipeline. It returns ErrInvalidClaimedID for a malformed
// claim, ErrEngineUnavailable before any recognition is attempted if the
// engine cannot be located, and ErrIDNotFound when no pass yields an ID
// (including undecodable images). Passes are abandoned once ctx is done.
func (v *Verifier) Verify(ctx context.Context, claimedID string, imageBuf []byte) (*Result, error) {
	claimed := strings.ToLower(strings.TrimSpace(claimedID))
	if !claimedPattern.MatchString(claimed) {
		return nil, ErrInvalidClaimedID
	}

	rec, err := v.locator.Locate()
	if err != nil {
		return nil, err
	}
	defer rec.Close()

	extracted, err := v.extract(ctx, rec, imageBuf)
	if err != nil {
		return nil, err
	}
	return &Result{
		ExtractedID: extracted,
		Matches:     extracted == claimed,
	}, nil
}

// extract walks the variant/mode grid in fixed order and returns the first
// pattern match. First variant, first mode, first match wins; there is no
// scoring across candidates.
func (v *Verifier) extract(ctx context.Context, rec Recognizer, imageBuf []byte) (string, error) {
	oriented, err := decodeOriented(imageBuf)
	if err != nil {
		return "", ErrIDNotFound
	}

	bases := []image.Image{oriented, preprocess(oriented)}
	for _, base := range bases {
		for _, degrees := range []int{0, 90, 180, 270} {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			encoded, err := encodePNG(rotate(base, degrees))
			if err != nil {
				continue
			}
			for _, mode := range PageModes {
				text, err := rec.Recognize(ctx, encoded, mode)
				if err != nil {
					if ctx.Err() != nil {
						return "", ctx.Err()
					}
					continue
				}
				if id, ok := findID(text); ok {
					return id, nil
				}
			}
		}
	}
	return "", ErrIDNotFound
}

// findID normalizes one raw recognition candidate and searches it for the ID
// pattern.
func findID(raw string) (string, bool) {
	norm := normalizeCandidate(raw)
	id := extractPattern.FindString(norm)
	return id, id != ""
}

// normalizeCandidate flattens recognition noise: lowercase, no whitespace,
// common slash misreads mapped back to "/", stray pipes dropped.
func normalizeCandidate(raw string) string {
	s := strings.ToLower(raw)
	replacer := strings.NewReplacer(
		" ", "",
		"\n", "",
		"\r", "",
		"-", "/",
		"\\", "/",
		"|", "",
	)
	return replacer.Replace(s)
}
